// Package pool provides the symbol pools decks are drawn from.
//
// The pool package handles:
//   - Built-in pools that are always available
//   - Loading pools from JSON files in a directory
//   - Pool validation and capacity reporting
//   - Pool discovery and listing
//
// Pool Format:
//
// A pool file is a JSON object with a display name, an optional description
// and a list of unique, non-blank symbols:
//
//	{
//	  "name": "Planets",
//	  "description": "The solar system",
//	  "symbols": ["☿", "♀", "♁", "♂", "♃", "♄", "♅", "♆"]
//	}
//
// The pool ID is the file name without its extension.
//
// Built-in Pools:
//   - emoji: 64 animal and fruit emoji (the default)
//   - letters: A-Z and a-z
//   - numbers: "1" to "144"
//
// Usage:
//
//	catalog, err := pool.NewCatalog("pools")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	symbols, err := catalog.LoadPool("emoji")
//	deck, err := engine.BuildDeck(symbols.Symbols, engine.DefaultConfiguration())
//
//	pools, err := catalog.ListPools()
//
// A pool that is too small for a configuration is not an error here; deck
// building reports it as an *engine.ConfigurationError.
package pool
