package main

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"giltrack/internal/db"
	"giltrack/internal/model"
	"giltrack/internal/store"
)

// openDB opens the tracking database and ensures the schema exists.
func openDB() (*sql.DB, error) {
	database, err := db.Open(flagDB)
	if err != nil {
		return nil, err
	}
	if err := db.EnsureSchema(database); err != nil {
		database.Close()
		return nil, err
	}
	return database, nil
}

// lookupCharacter resolves a command-line character argument. The empty
// string selects the only stored character when exactly one exists;
// otherwise the argument is "Name@WorldID".
func lookupCharacter(ctx context.Context, database *sql.DB, arg string) (*model.Character, error) {
	if arg == "" {
		characters, err := store.ListCharacters(ctx, database)
		if err != nil {
			return nil, err
		}
		switch len(characters) {
		case 0:
			return nil, fmt.Errorf("no characters tracked yet")
		case 1:
			return &characters[0], nil
		}
		return nil, fmt.Errorf("%d characters tracked, use --character \"Name@WorldID\"", len(characters))
	}

	name, worldPart, ok := strings.Cut(arg, "@")
	if !ok {
		return nil, fmt.Errorf("invalid character %q, expected \"Name@WorldID\"", arg)
	}
	worldID, err := strconv.ParseUint(worldPart, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid world id %q: %w", worldPart, err)
	}

	c, err := store.FindCharacterByNameAndWorld(ctx, database, name, uint32(worldID))
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, fmt.Errorf("character %q not found", arg)
	}
	return c, nil
}
