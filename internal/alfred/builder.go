package alfred

import (
	"errors"
	"fmt"
	"strings"

	"alfredflow/internal/config"
	"alfredflow/internal/core"
	"alfredflow/internal/data"
	"alfredflow/internal/template"
)

// Builder renders a workflow configuration into Alfred output.
type Builder struct {
	Workflow config.WorkflowConfig
	Sources  data.Sources
	Debug    *DebugLogger
}

// InputVariables reads variables from an incoming Alfred JSON payload:
// the alfredworkflow.variables object, then the workflow's extract rules,
// which win on name clashes.
func (b *Builder) InputVariables(body []byte) ([]core.Variable, error) {
	vars, err := template.ExtractVariables(body)
	if err != nil {
		return nil, err
	}
	extracted, err := template.Extract(body, b.Workflow.Extract)
	if err != nil {
		b.Debug.LogError("extract", err)
		return nil, fmt.Errorf("extract: %w", err)
	}
	return append(vars, core.VariablesFromMap(extracted)...), nil
}

// Resolve layers variables in increasing precedence: input (typically the
// incoming Alfred payload), the workflow's configured variables, then
// overrides. Configured values may reference both input and override
// variables.
func (b *Builder) Resolve(input, overrides []core.Variable) (*core.MapVariables, error) {
	scope := core.NewVariables()
	scope.Add(input...)
	b.Debug.LogVariables("input", scope.ToMap())
	scope.Add(overrides...)

	configured, err := template.SubstituteVariables(config.Variables(b.Workflow.Variables), scope)
	if err != nil {
		b.Debug.LogError("workflow variables", err)
		return nil, fmt.Errorf("workflow variables: %w", err)
	}

	vars := core.NewVariables()
	vars.Add(input...)
	vars.Add(configured...)
	vars.Add(overrides...)

	b.Debug.LogVariables("resolved", vars.ToMap())
	return vars, nil
}

// Object produces an alfredworkflow JSON object carrying the resolved
// variables and the workflow's config values with placeholders resolved.
func (b *Builder) Object(vars *core.MapVariables, args []string) (JSONObject, error) {
	obj := JSONObject{Arg: Arg(args)}
	obj.AddVariables(core.VariablesFromMap(vars.ToMap())...)

	cfg, err := template.SubstituteMap(b.Workflow.Config, vars)
	if err != nil {
		b.Debug.LogError("config", err)
		return JSONObject{}, fmt.Errorf("config: %w", err)
	}
	for key, value := range cfg {
		if obj.Config == nil {
			obj.Config = make(map[string]any, len(cfg))
		}
		obj.Config[key] = value
	}
	return obj, nil
}

// Build produces a script filter from resolved variables. Items whose
// title (or match field, when set) does not contain query are dropped.
func (b *Builder) Build(vars *core.MapVariables, query string) (*ScriptFilter, error) {
	sf := NewScriptFilter()
	if b.Workflow.Rerun > 0 {
		if err := sf.SetRerun(b.Workflow.Rerun); err != nil {
			return nil, err
		}
	}
	sf.AddVariables(core.VariablesFromMap(vars.ToMap())...)

	var errs []error
	for i, ic := range b.Workflow.Items {
		it, err := buildItem(ic, vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("items[%d]: %w", i, err))
			continue
		}
		b.addFiltered(sf, "items", it, query)
	}

	for _, dc := range b.Workflow.Data {
		src, ok := b.Sources.Lookup(dc.Name)
		if !ok {
			errs = append(errs, fmt.Errorf("data source %q not loaded", dc.Name))
			continue
		}
		for i, row := range src.Rows() {
			scoped := core.NewVariables()
			scoped.Merge(vars.ToMap())
			scoped.Add(src.Variables(row)...)

			it, err := buildItem(dc.Item, scoped)
			if err != nil {
				errs = append(errs, fmt.Errorf("data %q row %d: %w", dc.Name, i+1, err))
				continue
			}
			b.addFiltered(sf, dc.Name, it, query)
		}
	}

	if len(errs) > 0 {
		err := errors.Join(errs...)
		b.Debug.LogError("build", err)
		return nil, err
	}
	return sf, nil
}

func (b *Builder) addFiltered(sf *ScriptFilter, source string, it Item, query string) {
	if !Matches(it, query) {
		b.Debug.LogSkipped(it.Title, query)
		return
	}
	b.Debug.LogItem(source, it)
	sf.AddItems(it)
}

// Matches reports whether an item passes a case-insensitive substring
// filter. An empty query matches everything.
func Matches(it Item, query string) bool {
	query = strings.TrimSpace(query)
	if query == "" {
		return true
	}
	haystack := it.Title
	if it.Match != "" {
		haystack = it.Match
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(query))
}

func buildItem(ic config.ItemConfig, vars core.Variables) (Item, error) {
	var errs []error
	sub := func(field, text string) string {
		out, err := template.Substitute(text, vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", field, err))
		}
		return out
	}

	it := Item{
		UID:          sub("uid", ic.UID),
		Title:        sub("title", ic.Title),
		Subtitle:     sub("subtitle", ic.Subtitle),
		Arg:          sub("arg", ic.Arg),
		Autocomplete: sub("autocomplete", ic.Autocomplete),
		Match:        sub("match", ic.Match),
		Type:         ic.Type,
		Valid:        ic.Valid,
		QuickLookURL: sub("quicklookurl", ic.QuickLookURL),
	}
	if ic.Icon != nil {
		it.Icon = &Icon{Type: ic.Icon.Type, Path: sub("icon.path", ic.Icon.Path)}
	}
	if ic.Text != nil {
		it.Text = &Text{Copy: sub("text.copy", ic.Text.Copy), LargeType: sub("text.largetype", ic.Text.LargeType)}
	}

	itemVars, err := template.SubstituteVariables(config.Variables(ic.Variables), vars)
	if err != nil {
		errs = append(errs, err)
	}
	it.Variables = VariableMap(itemVars...)

	for _, key := range sortedKeys(ic.Mods) {
		mc := ic.Mods[key]
		modVars, err := template.SubstituteVariables(config.Variables(mc.Variables), vars)
		if err != nil {
			errs = append(errs, fmt.Errorf("mods.%s: %w", key, err))
		}
		if it.Mods == nil {
			it.Mods = make(map[string]Mod, len(ic.Mods))
		}
		it.Mods[key] = Mod{
			Valid:     mc.Valid,
			Arg:       sub("mods."+key+".arg", mc.Arg),
			Subtitle:  sub("mods."+key+".subtitle", mc.Subtitle),
			Variables: VariableMap(modVars...),
		}
	}

	if err := it.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return Item{}, errors.Join(errs...)
	}
	return it, nil
}
