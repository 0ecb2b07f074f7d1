package auth

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// PathNavigator records the current page path. Navigations are logged.
type PathNavigator struct {
	mu   sync.Mutex
	path string
}

// NewPathNavigator starts at path.
func NewPathNavigator(path string) *PathNavigator {
	return &PathNavigator{path: path}
}

// Path implements Navigator.
func (n *PathNavigator) Path() string {
	n.mu.Lock()
	defer n.mu.Unlock()

	return n.path
}

// Navigate implements Navigator.
func (n *PathNavigator) Navigate(path string) {
	n.mu.Lock()
	from := n.path
	n.path = path
	n.mu.Unlock()

	log.Debug().Str("from", from).Str("to", path).Msg("navigate")
}
