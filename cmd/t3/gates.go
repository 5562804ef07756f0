package main

import (
	"flag"
	"fmt"

	"t3/internal/gate"
)

func gatesCommand(args []string) error {
	fs := flag.NewFlagSet("gates", flag.ContinueOnError)
	id := fs.Int("id", 0, "gate function id")
	monadic := fs.Bool("monadic", false, "treat id as a monadic gate")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *monadic {
		table, err := gate.MonadicTruthTable(*id)
		if err != nil {
			return err
		}
		fmt.Printf("monadic gate %d:\n", *id)
		for a := 0; a < 3; a++ {
			fmt.Printf("  f(%s) = %s\n", trits[a], table[a])
		}
		return nil
	}

	table, err := gate.TruthTable(*id)
	if err != nil {
		return err
	}
	props := gate.PropertiesOf(*id)

	fmt.Printf("dyadic gate %d:\n", *id)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			fmt.Printf("  f(%s,%s) = %s\n", trits[a], trits[b], table[3*a+b])
		}
	}
	fmt.Printf("commutative=%v associative=%v identity=%v\n",
		props.Commutative, props.Associative, identityString(props))
	fmt.Printf("post-class: preserves-0=%v preserves-1=%v preserves--1=%v self-dual=%v monotone=%v linear=%v\n",
		props.PostClassMask&gate.PreservesZero != 0,
		props.PostClassMask&gate.PreservesOne != 0,
		props.PostClassMask&gate.PreservesNegOne != 0,
		props.PostClassMask&gate.SelfDual != 0,
		props.PostClassMask&gate.Monotone != 0,
		props.PostClassMask&gate.Linear != 0)
	return nil
}

var trits = [3]string{"-1", "0", "+1"}

func identityString(p gate.Properties) string {
	if p.Identity == gate.NoIdentity {
		return "none"
	}
	return p.Identity.String()
}
