// ABOUTME: Adapters between concrete collaborators and the nav interfaces
// ABOUTME: Keeps the player package free of navigation types

package main

import (
	"radiodial/nav"
	"radiodial/player"
)

// playerAdapter adapts player.Controller to the nav.Player interface.
type playerAdapter struct {
	controller *player.Controller
}

func (a *playerAdapter) Start(url string) (nav.Handle, error) {
	p, err := a.controller.Start(url)
	if err != nil {
		return nil, err
	}

	return p, nil
}

func (a *playerAdapter) Stop(h nav.Handle) error {
	p, ok := h.(*player.Process)
	if !ok {
		return nil
	}

	return a.controller.Stop(p)
}
