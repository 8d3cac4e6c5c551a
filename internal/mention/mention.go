// Package mention re-derives the structured mention list of a message from
// its content. The client embeds mention tokens while composing, but the
// server never trusts them: content is the single source of truth, walked
// again on every create and edit.
package mention

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"

	"github.com/drystore/nexus/internal/models"
)

// Extract returns the mentions found in content, resolved against the
// channel member list. Repeated mentions are deduplicated and mentions of
// users who are not members are dropped.
//
// Content is either a rich document (JSON object with embedded mention
// nodes) or plain text with @name tokens.
func Extract(content string, members []models.MemberWithProfile) []models.Mention {
	byID := make(map[int64]models.MemberWithProfile, len(members))
	for _, m := range members {
		byID[m.UserID] = m
	}

	var found []int64
	if doc := parseDocument(content); doc != nil {
		found = walkDocument(doc)
	} else {
		found = scanPlainText(content, members)
	}

	seen := make(map[int64]struct{}, len(found))
	var mentions []models.Mention
	for _, id := range found {
		member, ok := byID[id]
		if !ok {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		mentions = append(mentions, models.Mention{
			UserID:      id,
			DisplayName: member.DisplayName,
		})
	}
	return mentions
}

// parseDocument returns the content as a rich-document node tree, or nil
// when the content is not a JSON object.
func parseDocument(content string) map[string]any {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "{") {
		return nil
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(trimmed), &doc); err != nil {
		return nil
	}
	return doc
}

// walkDocument collects the user IDs of every mention node in the tree.
// Mention nodes look like {"type":"mention","attrs":{"id":"123",...}}.
func walkDocument(node map[string]any) []int64 {
	var ids []int64

	if t, _ := node["type"].(string); t == "mention" {
		if attrs, ok := node["attrs"].(map[string]any); ok {
			if id, ok := mentionID(attrs["id"]); ok {
				ids = append(ids, id)
			}
		}
	}

	if children, ok := node["content"].([]any); ok {
		for _, child := range children {
			if childNode, ok := child.(map[string]any); ok {
				ids = append(ids, walkDocument(childNode)...)
			}
		}
	}
	return ids
}

func mentionID(v any) (int64, bool) {
	switch id := v.(type) {
	case string:
		n, err := strconv.ParseInt(id, 10, 64)
		return n, err == nil
	case float64:
		return int64(id), true
	}
	return 0, false
}

// scanPlainText resolves @name tokens against the member list by display
// name or username, case-insensitively, longest name first so that
// "@Jane Smith" wins over "@Jane".
func scanPlainText(content string, members []models.MemberWithProfile) []int64 {
	type candidate struct {
		name string
		id   int64
	}
	var candidates []candidate
	for _, m := range members {
		if m.DisplayName != "" {
			candidates = append(candidates, candidate{strings.ToLower(m.DisplayName), m.UserID})
		}
		if m.Username != "" {
			candidates = append(candidates, candidate{strings.ToLower(m.Username), m.UserID})
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		return len(candidates[i].name) > len(candidates[j].name)
	})

	lower := strings.ToLower(content)
	var ids []int64
	for i := 0; i < len(lower); i++ {
		if lower[i] != '@' {
			continue
		}
		rest := lower[i+1:]
		for _, c := range candidates {
			if strings.HasPrefix(rest, c.name) {
				ids = append(ids, c.id)
				i += len(c.name)
				break
			}
		}
	}
	return ids
}
