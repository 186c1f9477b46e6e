package app

import (
	"github.com/specmap/specmap/internal/appcontext"
)

// Ensure App implements the appcontext.Interface that command packages
// consume, keeping the dependency-injection contract honest at compile time.
var _ appcontext.Interface = (*App)(nil)
