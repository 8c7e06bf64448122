// SPDX-FileCopyrightText: 2026 streamhaus, LLC
// SPDX-License-Identifier: Apache-2.0

package drip

import (
	"errors"
	"fmt"
	"strings"
)

// Acks specifies the broker acknowledgment requirement handed to the
// transport.
type Acks string

const (
	// AcksAll requires all in-sync replicas to acknowledge (strongest
	// durability).
	AcksAll Acks = "all"

	// AcksLeader requires only the partition leader to acknowledge.
	AcksLeader Acks = "leader"

	// AcksNone requires no acknowledgment (fire-and-forget).
	AcksNone Acks = "none"
)

var acksTypes map[Acks]struct{}
var acksList []string

func init() {
	list := []Acks{
		AcksAll,
		AcksLeader,
		AcksNone,
	}

	acksTypes = make(map[Acks]struct{})
	for _, a := range list {
		acksTypes[a] = struct{}{}
		acksList = append(acksList, string(a))
	}
}

// validateAcks validates the Acks enum value. Empty means "transport
// default" and is accepted.
func validateAcks(acks Acks) error {
	if acks == "" {
		return nil
	}

	if _, ok := acksTypes[acks]; ok {
		return nil
	}

	list := "'" + strings.Join(acksList, "', '") + "'"
	return errors.Join(ErrValidation,
		fmt.Errorf("acks '%s' is invalid: must be %s or empty", acks, list))
}
