package event

import "github.com/stretchr/testify/mock"

// MatchEvent creates a custom matcher for enhanced event arguments in mocks
func MatchEvent(matcher func(*Enhanced) bool) interface{} {
	return mock.MatchedBy(matcher)
}
