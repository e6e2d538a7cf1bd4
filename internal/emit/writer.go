package emit

// Options control the layout of the outline.
type Options struct {
	IndentWidth int
	UseTabs     bool
	// NoComments drops documentation lines.
	NoComments bool
}

func (o Options) withDefaults() Options {
	if o.IndentWidth == 0 {
		o.IndentWidth = 4
	}
	return o
}

// writer accumulates lines at the current indentation level.
type writer struct {
	opt         Options
	buf         []byte
	indentLevel int
}

func newWriter(opt Options) *writer {
	return &writer{opt: opt.withDefaults(), buf: make([]byte, 0, 4096)}
}

func (w *writer) writeIndent() {
	if w.opt.UseTabs {
		for range w.indentLevel {
			w.buf = append(w.buf, '\t')
		}
		return
	}
	for range w.indentLevel * w.opt.IndentWidth {
		w.buf = append(w.buf, ' ')
	}
}

// line writes s on a line of its own.
func (w *writer) line(s string) {
	if s != "" {
		w.writeIndent()
		w.buf = append(w.buf, s...)
	}
	w.buf = append(w.buf, '\n')
}

func (w *writer) indent() { w.indentLevel++ }

func (w *writer) dedent() {
	if w.indentLevel > 0 {
		w.indentLevel--
	}
}
