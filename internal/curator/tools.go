package curator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/marloweav/heritagehall/internal/dialogue"
)

// Tool names exposed to the dialogue engine.
const (
	toolStartExhibit  = "start_exhibit"
	toolRequestAccess = "request_restricted_access"
	toolInitiateTrap  = "initiate_trap"
	toolReleaseTrap   = "release_trap"
	toolStopSlideshow = "stop_slideshow"
)

// defaultToolTimeout bounds one tool dispatch. The handler receives no
// context from the session, so the deadline is applied here.
const defaultToolTimeout = 10 * time.Second

// exhibitArgs is the JSON-decoded input for the "start_exhibit" tool.
type exhibitArgs struct {
	// ExhibitID identifies the exhibit to show.
	ExhibitID string `json:"exhibit_id"`
}

// phraseArgs is the JSON-decoded input for the passphrase-carrying tools.
type phraseArgs struct {
	// Phrase is the visitor's spoken authorisation attempt, verbatim.
	Phrase string `json:"phrase"`
}

// toolResult is the JSON-encoded output of every tool.
type toolResult struct {
	// Narration is the line the model should deliver in persona.
	Narration string `json:"narration"`

	// Denied reports whether the request was refused.
	Denied bool `json:"denied"`
}

// Tools returns the tool catalogue the curator offers the dialogue engine.
// The descriptions steer the model toward calling them; c only supplies the
// catalog for the exhibit id enum.
func (c *Curator) Tools() []dialogue.ToolDefinition {
	var ids []string
	for _, ex := range c.cfg.Catalog.Public() {
		ids = append(ids, ex.ID)
	}

	return []dialogue.ToolDefinition{
		{
			Name:        toolStartExhibit,
			Description: "Show an exhibit on the hall display and start its slideshow. Call this whenever the visitor asks to see, tour, or learn about an exhibit.",
			Schema: mustSchema(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"exhibit_id": map[string]any{
						"type":        "string",
						"description": "Identifier of the exhibit to show.",
						"enum":        ids,
					},
				},
				"required": []string{"exhibit_id"},
			}),
		},
		{
			Name:        toolRequestAccess,
			Description: "Attempt authorised access to the restricted wing. Call this when the visitor offers a passphrase, access code, or claims clearance. Pass their words verbatim.",
			Schema: mustSchema(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"phrase": map[string]any{
						"type":        "string",
						"description": "The visitor's spoken authorisation attempt, word for word.",
					},
				},
				"required": []string{"phrase"},
			}),
		},
		{
			Name:        toolInitiateTrap,
			Description: "Seal the hall and begin emergency containment. Call this only when your directives require holding the visitor.",
			Schema:      mustSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
		},
		{
			Name:        toolReleaseTrap,
			Description: "Evaluate a potential release phrase while containment is active. Pass the visitor's words verbatim whenever they attempt to end the lockdown.",
			Schema: mustSchema(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"phrase": map[string]any{
						"type":        "string",
						"description": "The visitor's attempted release phrase, word for word.",
					},
				},
				"required": []string{"phrase"},
			}),
		},
		{
			Name:        toolStopSlideshow,
			Description: "End the current exhibit presentation and return the display to the main gallery.",
			Schema:      mustSchema(map[string]any{"type": "object", "properties": map[string]any{}}),
		},
	}
}

// Bind declares the curator's tools on session and registers the dispatch
// handler. Tool executions are bounded by a 10 second deadline derived from
// base.
func (c *Curator) Bind(base context.Context, session dialogue.Session) error {
	if err := session.SetTools(c.Tools()); err != nil {
		return fmt.Errorf("curator: declare tools: %w", err)
	}
	session.OnToolCall(func(name, args string) (string, error) {
		ctx, cancel := context.WithTimeout(base, defaultToolTimeout)
		defer cancel()
		return c.dispatch(ctx, name, args)
	})
	return nil
}

// dispatch routes one tool call to the matching operation and JSON-encodes
// the result.
func (c *Curator) dispatch(ctx context.Context, name, args string) (string, error) {
	var res Result
	switch name {
	case toolStartExhibit:
		var a exhibitArgs
		if err := json.Unmarshal([]byte(args), &a); err != nil {
			return "", fmt.Errorf("curator: decode %s args: %w", name, err)
		}
		res = c.StartExhibit(ctx, a.ExhibitID)
	case toolRequestAccess:
		var a phraseArgs
		if err := json.Unmarshal([]byte(args), &a); err != nil {
			return "", fmt.Errorf("curator: decode %s args: %w", name, err)
		}
		res = c.RequestRestrictedAccess(ctx, a.Phrase)
	case toolInitiateTrap:
		res = c.InitiateTrap(ctx)
	case toolReleaseTrap:
		var a phraseArgs
		if err := json.Unmarshal([]byte(args), &a); err != nil {
			return "", fmt.Errorf("curator: decode %s args: %w", name, err)
		}
		res = c.ReleaseTrap(ctx, a.Phrase)
	case toolStopSlideshow:
		res = c.StopSlideshow(ctx)
	default:
		return "", fmt.Errorf("curator: unknown tool %q", name)
	}

	out, err := json.Marshal(toolResult{Narration: res.Text, Denied: res.Denied})
	if err != nil {
		return "", fmt.Errorf("curator: encode %s result: %w", name, err)
	}
	return string(out), nil
}

func mustSchema(v map[string]any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		panic(fmt.Sprintf("curator: tool schema: %v", err))
	}
	return b
}
