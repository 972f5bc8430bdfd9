//go:build !collgo_unchecked

package check

const defaultLevels = All
