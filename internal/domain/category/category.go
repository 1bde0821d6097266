package category

import "strings"

// All is the category value that places no constraint on the catalog.
const All = "all"

type Category struct {
	Name         string
	ProductCount int
}

func IsAll(name string) bool {
	return strings.TrimSpace(name) == All
}
