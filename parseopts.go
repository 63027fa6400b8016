package fnplot

// ParseOption is an option for parsing.
type ParseOption interface {
	parseOption(parsectx) parsectx
}

type (
	funcopt struct {
		name string
		fn   Func
	}
	funcsopt map[string]Func
)

// parsectx holds general data for parsing. It is also a ParseOption.
type parsectx struct {
	// funcs is the whitelist of function and constant names. A nil entry
	// disables a default function.
	funcs map[string]Func
	// nodefaults indicates that funcs already contains every default
	// function, so Parse need not merge them in.
	nodefaults bool
}

func (p *parsectx) checkdefaults() {
	if p.nodefaults {
		return
	}
	n := 0
	for k := range p.funcs {
		if _, ok := globalfuncs[k]; ok {
			n++
		}
	}
	if n == len(globalfuncs) {
		p.nodefaults = true
	}
}

// ParseFunc adds a function or constant to the whitelist. To remove a
// function from the whitelist, pass nil for fn. The name x always refers to
// the variable and cannot be redefined.
func ParseFunc(name string, fn Func) ParseOption {
	return &funcopt{name, fn}
}

func (o *funcopt) parseOption(p parsectx) parsectx {
	p.funcs = clonefuncs(p.funcs, 1)
	p.funcs[o.name] = o.fn
	p.checkdefaults()
	return p
}

// ParseFuncs sets a group of functions for parsing. To disable parsing any
// function, set it to nil.
func ParseFuncs(fns map[string]Func) ParseOption {
	return funcsopt(fns)
}

func (o funcsopt) parseOption(p parsectx) parsectx {
	p.funcs = clonefuncs(p.funcs, len(o))
	for k, v := range o {
		p.funcs[k] = v
	}
	p.checkdefaults()
	return p
}

// DisableFuncs removes functions and constants from the whitelist. Their
// names become unknown identifiers.
func DisableFuncs(names ...string) ParseOption {
	o := make(funcsopt, len(names))
	for _, name := range names {
		o[name] = nil
	}
	return o
}

// DisableDefaultFuncs removes all default functions and constants from the
// whitelist.
func DisableDefaultFuncs() ParseOption {
	return DisableFuncs(DefaultFuncs()...)
}

// clonefuncs copies a function map so that options never modify a map
// owned by a preset or by the caller.
func clonefuncs(m map[string]Func, extra int) map[string]Func {
	r := make(map[string]Func, len(m)+extra)
	for k, v := range m {
		r[k] = v
	}
	return r
}

// ParsingPreset creates a parsing preset that may be more efficient when using
// the same non-default parsing options for many calls to Parse. A preset
// panics when it would change any option from the default, but it is safe to
// apply other options after a preset.
func ParsingPreset(opts ...ParseOption) ParseOption {
	var p parsectx
	for _, opt := range opts {
		p = opt.parseOption(p)
	}
	if p.funcs != nil && !p.nodefaults {
		// If we've set any functions, add unset default ones now.
		for k, v := range globalfuncs {
			if _, ok := p.funcs[k]; !ok {
				p.funcs[k] = v
			}
		}
		p.nodefaults = true
	}
	return &p
}

func (o *parsectx) parseOption(p parsectx) parsectx {
	if p.funcs != nil {
		panic("fnplot: preset applied to non-default parse config")
	}
	p.funcs = o.funcs
	p.nodefaults = o.nodefaults
	return p
}
