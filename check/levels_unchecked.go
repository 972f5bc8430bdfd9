//go:build collgo_unchecked

package check

const defaultLevels Level = 0
