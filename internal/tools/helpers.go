// Package tools exposes Mosaic's operations as MCP tools. Each tool is
// a struct with a Definition and a Handle; validation happens here,
// semantics live in the store, query, and notify packages.
package tools

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jarosser06/mosaic/internal/apperr"
	"github.com/jarosser06/mosaic/internal/store"
)

// decodeArgs binds the raw tool arguments onto dst, rejecting unknown
// fields so misspelled argument names fail loudly instead of being
// silently dropped.
func decodeArgs(req mcp.CallToolRequest, dst any) error {
	raw, err := json.Marshal(req.GetRawArguments())
	if err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "read arguments", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return apperr.Wrap(apperr.InvalidArgument, "decode arguments", err)
	}
	return nil
}

// parseInstant parses a datetime argument. RFC3339 requires an
// explicit offset, which rejects naive datetimes by construction.
func parseInstant(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperr.Newf(apperr.InvalidArgument,
			"%s %q: want ISO-8601 with explicit offset (e.g. 2026-08-10T09:00:00-05:00)", field, value)
	}
	return t, nil
}

// parseOptionalInstant parses a nullable datetime argument.
func parseOptionalInstant(field string, value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := parseInstant(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// errResult renders an error as an MCP tool failure, prefixed with its
// taxonomy kind so callers can branch on it.
func errResult(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError(fmt.Sprintf("%s: %v", apperr.KindOf(err), err))
}

// jsonResult renders a value as indented JSON tool output.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// tagsOf converts a raw string list into a store tag set.
func tagsOf(raw []string) store.Tags {
	if raw == nil {
		return nil
	}
	return store.Tags(raw)
}

// privacyOf validates an optional privacy argument; empty defers to
// the store default.
func privacyOf(raw string) (store.PrivacyLevel, error) {
	if raw == "" {
		return "", nil
	}
	p := store.PrivacyLevel(raw)
	if !p.Valid() {
		return "", apperr.Newf(apperr.InvalidArgument,
			"privacy_level %q: must be public, internal, or private", raw)
	}
	return p, nil
}

// entityTypeOf validates an optional entity type argument.
func entityTypeOf(raw *string) (*store.EntityType, error) {
	if raw == nil {
		return nil, nil
	}
	et := store.EntityType(*raw)
	if !et.Valid() {
		return nil, apperr.Newf(apperr.InvalidArgument, "entity type %q is not recognized", *raw)
	}
	return &et, nil
}
