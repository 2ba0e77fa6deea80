package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hajdukthebest-droid/edu-platforma-sub001/internal/domain/versioning"
)

func TestParseEntityArgs(t *testing.T) {
	id := uuid.New()
	got, err := parseEntityArgs([]string{" Lesson ", id.String()})
	require.NoError(t, err)
	assert.Equal(t, versioning.EntityLesson, got.Type)
	assert.Equal(t, id, got.ID)

	_, err = parseEntityArgs([]string{"quiz", id.String()})
	assert.ErrorIs(t, err, versioning.ErrUnknownEntityType)
	_, err = parseEntityArgs([]string{"course", "123"})
	assert.Error(t, err)
}

func TestParseVersionArg(t *testing.T) {
	v, err := parseVersionArg(" 12 ")
	require.NoError(t, err)
	assert.Equal(t, 12, v)
	_, err = parseVersionArg("v12")
	assert.Error(t, err)
}

func TestWriteDiffTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeDiffTable(&buf, nil))
	assert.Equal(t, "no differences\n", buf.String())

	buf.Reset()
	require.NoError(t, writeDiffTable(&buf, []versioning.FieldDiff{
		{Field: "title", OldValue: "Intro", NewValue: "Intro to Go"},
		{Field: "tags", OldValue: []any{"go"}, NewValue: []any{"go", "sql"}},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "FIELD"))
	assert.Contains(t, lines[1], `"Intro to Go"`)
	assert.Contains(t, lines[2], `["go","sql"]`)
}

func TestVersionsCommandTree(t *testing.T) {
	names := map[string]bool{}
	for _, c := range versionsCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"history", "show", "create", "compare", "rollback", "cleanup", "sweep", "watch"} {
		assert.True(t, names[want], want)
	}
}
