/*
Package dichokey turns dichotomous identification keys into static,
cross-linked HTML sites.

A key is a decision graph: characteristic nodes ask a question, each
possible answer either leads to the next characteristic or determines a
species. The engine loads such a model from JSON, derives the navigation
structures (forward and reverse adjacency, breadcrumb chains, per-node
reachable species) and renders one page per characteristic and species,
plus an index, a species list and a glossary dictionary.

# Usage

Initialize the engine with a model file, then generate:

	package main

	import (
		"context"
		"log"

		"github.com/dichokey/dichokey"
		"github.com/dichokey/dichokey/pkg/adapters/file"
	)

	func main() {
		eng, err := dichokey.New("key.json",
			dichokey.WithGlossary(file.NewGlossarySource("glossary")),
		)
		if err != nil {
			log.Fatal(err)
		}

		report, err := eng.Generate(context.Background(), "out", dichokey.GenerateOptions{
			Title: "Ant identification key",
		})
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("generated %d pages", report.Pages)
	}

The derived indices are also usable directly, without generating a site:
Children, Parents and AncestorChain answer navigation queries, ClosureOf
returns the species still possible at a node, and Annotate wraps glossary
terms in arbitrary text with definition links.
*/
package dichokey
