// Package agents runs the bounded tool-calling loop between the user, the
// model and the tool registry.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strings"

	logcontext "github.com/sumittt2004/agentforge/context"
	"github.com/sumittt2004/agentforge/llm"
	"github.com/sumittt2004/agentforge/log"
	"github.com/sumittt2004/agentforge/orm"
	"github.com/sumittt2004/agentforge/tools"
)

const (
	DefaultMaxIterations = 5
	DefaultMaxTokens     = 2000
	DefaultHistoryWindow = 8
)

// Config tunes a single agent
type Config struct {
	Model         string
	Temperature   float64
	MaxIterations int
	MaxTokens     int
	HistoryWindow int
}

// Agent coordinates model calls and tool execution for one user message at a time
type Agent struct {
	client   llm.Client
	store    *orm.ConversationStore
	registry *tools.Registry
	cfg      Config
}

// NewAgent creates an agent. Zero values in cfg fall back to the defaults.
func NewAgent(client llm.Client, store *orm.ConversationStore, registry *tools.Registry, cfg Config) *Agent {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = DefaultHistoryWindow
	}
	return &Agent{
		client:   client,
		store:    store,
		registry: registry,
		cfg:      cfg,
	}
}

// toolUse is one tool execution made during a Chat run
type toolUse struct {
	name   string
	args   map[string]interface{}
	result string
}

// run holds the state local to one Chat invocation
type run struct {
	sessionID string
	window    []llm.Message
	executed  map[string]string
	used      []toolUse
	tokens    int
}

// Chat processes one user message and streams the resulting events. The
// sequence always ends with exactly one response or error event unless the
// consumer stops ranging early.
func (a *Agent) Chat(ctx context.Context, sessionID, message string) iter.Seq[Event] {
	return func(yield func(Event) bool) {
		a.chat(logcontext.WithSessionID(ctx, sessionID), sessionID, message, yield)
	}
}

func (a *Agent) chat(ctx context.Context, sessionID, message string, yield func(Event) bool) {
	if _, err := a.store.Append(ctx, sessionID, llm.RoleUser, message, orm.AppendOptions{}); err != nil {
		log.Errorf(ctx, "Failed to store user message: %v", err)
		yield(Event{Type: EventError, Content: fmt.Sprintf("Error: %v", err)})
		return
	}

	window, err := a.store.RenderForModel(ctx, sessionID, a.cfg.HistoryWindow, SystemPrompt)
	if err != nil {
		a.fail(ctx, &run{sessionID: sessionID}, err, yield)
		return
	}

	r := &run{
		sessionID: sessionID,
		window:    window,
		executed:  make(map[string]string),
	}
	catalog := a.catalog()

	for i := 0; i < a.cfg.MaxIterations; i++ {
		log.Debugf(ctx, "Chat round %d/%d", i+1, a.cfg.MaxIterations)

		if err := ctx.Err(); err != nil {
			a.fail(ctx, r, err, yield)
			return
		}

		resp, err := a.complete(ctx, r.window, catalog)
		if err != nil {
			a.fail(ctx, r, err, yield)
			return
		}
		r.tokens += resp.Usage.TotalTokens

		if len(resp.ToolCalls) == 0 {
			a.finish(ctx, r, resp.Content, yield)
			return
		}

		if !a.runTools(ctx, r, resp, yield) {
			return
		}
	}

	a.exhausted(ctx, r, yield)
}

// complete calls the model with tools enabled. A malformed tool generation
// is retried once as a plain completion.
func (a *Agent) complete(ctx context.Context, window []llm.Message, catalog []llm.Tool) (*llm.Response, error) {
	req := llm.Request{
		Model:       a.cfg.Model,
		Messages:    window,
		Tools:       catalog,
		ToolChoice:  llm.ToolChoiceAuto,
		Temperature: a.cfg.Temperature,
		MaxTokens:   a.cfg.MaxTokens,
	}

	resp, err := a.client.Complete(ctx, req)
	if err == nil || !errors.Is(err, llm.ErrToolUseFailed) {
		return resp, err
	}

	log.Warnf(ctx, "Tool call generation failed, retrying without tools: %v", err)
	req.Tools = nil
	req.ToolChoice = ""
	return a.client.Complete(ctx, req)
}

// runTools executes one batch of tool calls. It returns false when the
// consumer stopped ranging.
func (a *Agent) runTools(ctx context.Context, r *run, resp *llm.Response, yield func(Event) bool) bool {
	type pending struct {
		call llm.ToolCall
		args map[string]interface{}
		key  string
	}

	batch := make([]pending, 0, len(resp.ToolCalls))
	for _, tc := range resp.ToolCalls {
		args := tools.ParseArguments(tc.Arguments)
		batch = append(batch, pending{call: tc, args: args, key: duplicateKey(tc.Name, args)})
	}

	for _, p := range batch {
		if _, seen := r.executed[p.key]; seen {
			log.Infof(ctx, "Repeated tool call %s, asking for a final answer", p.call.Name)
			r.window = append(r.window, llm.UserMessage(ForceAnswerPrompt))
			return true
		}
	}

	r.window = append(r.window, llm.AssistantMessage(resp.Content, resp.ToolCalls...))

	for _, p := range batch {
		if result, seen := r.executed[p.key]; seen {
			r.window = append(r.window, llm.ToolMessage(p.call.ID, p.call.Name, result))
			continue
		}

		if !yield(Event{Type: EventToolCall, Name: p.call.Name, Args: p.args}) {
			return false
		}

		result := a.registry.Execute(ctx, p.call.Name, p.args)
		r.executed[p.key] = result
		r.used = append(r.used, toolUse{name: p.call.Name, args: p.args, result: result})

		if !yield(Event{Type: EventToolResult, Name: p.call.Name, Content: result}) {
			return false
		}
		r.window = append(r.window, llm.ToolMessage(p.call.ID, p.call.Name, result))
	}
	return true
}

func (a *Agent) finish(ctx context.Context, r *run, content string, yield func(Event) bool) {
	if strings.TrimSpace(content) == "" {
		content = EmptyAnswer
	}
	a.persist(ctx, r, content, true)
	yield(Event{Type: EventResponse, Content: content})
}

// fail records the error in the conversation and ends the run
func (a *Agent) fail(ctx context.Context, r *run, err error, yield func(Event) bool) {
	msg := fmt.Sprintf("Error: %v", err)
	log.Errorf(ctx, "Chat failed for session %s: %v", r.sessionID, err)
	a.persist(ctx, r, fmt.Sprintf("[Error occurred: %s]", msg), false)
	yield(Event{Type: EventError, Content: msg})
}

// exhausted ends a run that used every round without a final answer
func (a *Agent) exhausted(ctx context.Context, r *run, yield func(Event) bool) {
	log.Warnf(ctx, "Reached %d rounds without a final answer", a.cfg.MaxIterations)

	if len(r.used) == 0 {
		a.persist(ctx, r, fmt.Sprintf("[Error occurred: %s]", MaxIterationsMessage), false)
		yield(Event{Type: EventError, Content: MaxIterationsMessage})
		return
	}

	var b strings.Builder
	b.WriteString(summaryHeader)
	for _, u := range r.used {
		fmt.Fprintf(&b, "- Used %s: %s...\n\n", u.name, truncate(u.result, summarySnippet))
	}
	b.WriteString(summaryFooter)

	summary := b.String()
	a.persist(ctx, r, summary, true)
	yield(Event{Type: EventResponse, Content: summary})
}

// persist appends the closing assistant turn. Storage errors are logged so
// the caller still receives the terminal event. The write outlives a
// cancelled request context.
func (a *Agent) persist(ctx context.Context, r *run, content string, withTools bool) {
	ctx = context.WithoutCancel(ctx)
	opts := orm.AppendOptions{Tokens: r.tokens}
	if withTools {
		for _, u := range r.used {
			opts.ToolCalls = append(opts.ToolCalls, orm.ToolCallDescriptor{Name: u.name, Arguments: u.args})
			opts.ToolResults = append(opts.ToolResults, u.result)
		}
	}
	if _, err := a.store.Append(ctx, r.sessionID, llm.RoleAssistant, content, opts); err != nil {
		log.Errorf(ctx, "Failed to store assistant turn: %v", err)
	}
}

func (a *Agent) catalog() []llm.Tool {
	specs := a.registry.Definitions()
	out := make([]llm.Tool, 0, len(specs))
	for _, s := range specs {
		out = append(out, llm.Tool{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.JSONSchema(),
		})
	}
	return out
}

// ClearHistory removes every stored turn of the session
func (a *Agent) ClearHistory(ctx context.Context, sessionID string) bool {
	return a.store.Clear(ctx, sessionID)
}

// SessionInfo returns the session summary, or nil for an unknown session
func (a *Agent) SessionInfo(ctx context.Context, sessionID string) (*orm.Session, error) {
	return a.store.SessionInfo(ctx, sessionID)
}

// Tools lists the catalog offered to the model
func (a *Agent) Tools() []tools.ToolSpec {
	return a.registry.Definitions()
}

// duplicateKey identifies a call by name and canonical arguments. Map keys
// are marshalled in sorted order.
func duplicateKey(name string, args map[string]interface{}) string {
	b, err := json.Marshal(args)
	if err != nil {
		return name + ":" + fmt.Sprint(args)
	}
	return name + ":" + string(b)
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
