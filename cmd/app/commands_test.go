package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCommands(t *testing.T) {
	var names []string
	for _, cmd := range getCommands("test") {
		names = append(names, cmd.Name)
	}

	assert.Equal(t, []string{"server", "migrate", "create-user", "create-token", "issue-jwt"}, names)
}
