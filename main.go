// ABOUTME: Entry point for the radiodial application
// ABOUTME: Handles command-line parsing and wiring of the TUI dependencies

// Package main provides the entry point for radiodial, a terminal browser
// for the tunein radio directory playing streams through an external player.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"radiodial/config"
	"radiodial/favorites"
	"radiodial/nav"
	"radiodial/opml"
	"radiodial/player"
	"radiodial/tui"
)

const rootLoadTimeout = 30 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	rootURL := flag.String("root", "", "override the OPML directory root URL")
	dump := flag.Bool("dump", false, "print the top level of the directory and exit")
	debug := flag.Bool("debug", false, "enable debug logging to radiodial-debug.log")
	flag.Parse()

	if *debug {
		if err := SetupDebugLog("radiodial-debug.log"); err != nil {
			log.Printf("Failed to setup debug log: %v", err)

			return 1
		}
	}

	configPath := config.Path()

	settings, err := config.Load(configPath)
	if err != nil {
		// Broken settings degrade to defaults; the session continues.
		log.Printf("Settings error (using defaults): %v", err)
	}

	directoryURL := settings.RootURL
	if *rootURL != "" {
		directoryURL = *rootURL
	}

	loader := opml.NewLoader(directoryURL, debugf)

	if *dump {
		return runDump(loader)
	}

	var store *favorites.Store

	var entries []favorites.Entry

	store, err = favorites.Open(config.FavoritesPath())
	if err != nil {
		// Favorites stay session-only when the database is unavailable.
		log.Printf("Favorites unavailable: %v", err)
	} else {
		defer func() {
			if err := store.Close(); err != nil {
				debugf("[MAIN] Closing favorites store: %v", err)
			}
		}()

		if entries, err = store.All(); err != nil {
			debugf("[MAIN] Reading favorites: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), rootLoadTimeout)
	root := loader.Root(ctx)
	cancel()

	attachFavorites(root, entries)

	controller := player.NewController(settings.Player.Command, settings.Player.Args, debugf)

	var favStore nav.FavoriteStore
	if store != nil {
		favStore = store
	}

	machine := nav.NewMachine(root, &playerAdapter{controller: controller}, favStore, loader, debugf)

	if err := tui.Run(machine, settings, configPath, debugf); err != nil {
		log.Printf("TUI error: %v", err)

		return 1
	}

	return 0
}

// attachFavorites marks persisted favorites throughout the tree and inserts
// the synthetic favorites folder as the first top-level entry. Stations that
// already exist in the directory are shared with the folder, so toggling the
// flag in one place shows in both.
func attachFavorites(root *opml.Folder, entries []favorites.Entry) {
	if len(entries) == 0 {
		return
	}

	urls := make(map[string]bool, len(entries))
	for _, e := range entries {
		urls[e.URL] = true
	}

	opml.MarkFavorites(root, urls)

	existing := opml.StreamsByURL(root, urls)
	streams := make([]*opml.Stream, 0, len(entries))

	for _, e := range entries {
		if s, ok := existing[e.URL]; ok {
			streams = append(streams, s)

			continue
		}

		streams = append(streams, &opml.Stream{Text: e.Name, URL: e.URL, Favorite: true})
	}

	root.Children = append([]opml.Node{opml.FavoritesFolder(streams)}, root.Children...)
}
