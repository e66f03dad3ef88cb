package voice

import (
	"strings"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/juju/errors"
	"github.com/milk9111/lenstrace/prefabs"
)

// Action is what a transcript asks the lens to do.
type Action string

const (
	ActionNone       Action = "none"
	ActionGenerate   Action = "generate"
	ActionHome       Action = "home"
	ActionProjection Action = "projection"
	ActionHowToEdit  Action = "how_to_edit"
	ActionTracing    Action = "tracing"
	ActionLock       Action = "lock"
	ActionUnlock     Action = "unlock"
	ActionRetry      Action = "retry"
	ActionPlace      Action = "place"
	ActionConfirm    Action = "confirm"
	ActionReset      Action = "reset"
)

var knownActions = map[Action]struct{}{
	ActionNone: {}, ActionGenerate: {}, ActionHome: {}, ActionProjection: {},
	ActionHowToEdit: {}, ActionTracing: {}, ActionLock: {}, ActionUnlock: {},
	ActionRetry: {}, ActionPlace: {}, ActionConfirm: {}, ActionReset: {},
}

// Command is a routed transcript. Prompt is set for ActionGenerate.
type Command struct {
	Action Action
	Prompt string
}

// Router maps transcripts to commands by running a tengo script. The script
// receives `__transcript` and must set a `result` map with `action` and
// `prompt` keys.
type Router struct {
	mu       sync.Mutex
	name     string
	compiled *tengo.Compiled
}

// NewRouter compiles the named script from prefabs/scripts.
func NewRouter(scriptName string) (*Router, error) {
	r := &Router{name: scriptName}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload recompiles the script. On failure the previous script stays active.
func (r *Router) Reload() error {
	src, err := prefabs.LoadScript(r.name)
	if err != nil {
		return errors.Trace(err)
	}
	compiled, err := compile(src)
	if err != nil {
		return errors.Annotatef(err, "compile %s", r.name)
	}
	r.mu.Lock()
	r.compiled = compiled
	r.mu.Unlock()
	logger.Debugf("voice router loaded %s", r.name)
	return nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	_ = script.Add("__transcript", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// Route runs the script for transcript.
func (r *Router) Route(transcript string) (Command, error) {
	if r == nil {
		return Command{}, errors.NotFoundf("voice router")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.compiled == nil {
		return Command{}, errors.NotFoundf("voice script %s", r.name)
	}

	if err := r.compiled.Set("__transcript", transcript); err != nil {
		return Command{}, errors.Trace(err)
	}
	if err := r.compiled.Run(); err != nil {
		return Command{}, errors.Annotatef(err, "run %s", r.name)
	}
	if !r.compiled.IsDefined("result") {
		return Command{}, errors.NotValidf("script %s without result", r.name)
	}

	out := r.compiled.Get("result").Map()
	action, _ := out["action"].(string)
	prompt, _ := out["prompt"].(string)
	cmd := Command{Action: Action(strings.TrimSpace(action)), Prompt: strings.TrimSpace(prompt)}
	if _, ok := knownActions[cmd.Action]; !ok {
		return Command{}, errors.NotValidf("voice action %q", action)
	}
	if cmd.Action == ActionGenerate && cmd.Prompt == "" {
		cmd.Action = ActionNone
	}
	return cmd, nil
}
