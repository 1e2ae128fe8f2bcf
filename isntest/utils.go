// Package isntest has small helpers for building positions and moves
// in tests, panicking on malformed input.
package isntest

import (
	"strings"

	"github.com/nholt/anchorite/isn"
	"github.com/nholt/anchorite/isola"
)

func Move(s string) isola.Move {
	m, e := isn.ParseMove(s)
	if e != nil {
		panic(e)
	}
	return m
}

func Moves(s string) []isola.Move {
	if s == "" {
		return nil
	}
	bits := strings.Split(s, " ")
	var ms []isola.Move
	for _, b := range bits {
		ms = append(ms, Move(b))
	}
	return ms
}

// Position parses an IPS string, panicking on error.
func Position(ips string) *isola.Position {
	p, e := isn.ParseIPS(ips)
	if e != nil {
		panic(e)
	}
	return p
}

// Play applies a space-separated move list to a fresh board of the
// given size.
func Play(w, h int, ms string) *isola.Position {
	p := isola.New(isola.Config{Width: w, Height: h})
	for _, m := range Moves(ms) {
		next, e := p.Move(m)
		if e != nil {
			panic(e)
		}
		*p = next
	}
	return p
}
