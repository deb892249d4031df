package xlgrid

import "github.com/sirupsen/logrus"

// Default sizing values, in character units of the default font.
const (
	DefaultColumnWidth = 9.140625
	DefaultRowHeight   = 15.0
	DefaultWidthPad    = 1.0
	DefaultMinWidth    = 1.0
	DefaultMaxWidth    = 255.0
)

// Options holds worksheet configuration.
type Options struct {
	maxColumns    int
	maxRows       int
	defaultWidth  float64
	defaultHeight float64
	widthPadding  float64
	minWidth      float64
	maxWidth      float64
	defaultFont   Font
	measurer      Measurer
	renderer      Renderer
	logger        logrus.FieldLogger
	listeners     []ReferenceListener
}

func defaultOptions() *Options {
	return &Options{
		maxColumns:    MaxColumns,
		maxRows:       MaxRows,
		defaultWidth:  DefaultColumnWidth,
		defaultHeight: DefaultRowHeight,
		widthPadding:  DefaultWidthPad,
		minWidth:      DefaultMinWidth,
		maxWidth:      DefaultMaxWidth,
		defaultFont:   DefaultFont,
		measurer:      NewRuneWidthMeasurer(),
		renderer:      RenderValue,
		logger:        logrus.StandardLogger(),
	}
}

// Option configures a Worksheet.
type Option func(*Options)

// WithMaxColumns sets the highest column ordinal the sheet accepts (default: 16384).
func WithMaxColumns(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxColumns = n
		}
	}
}

// WithMaxRows sets the highest row ordinal the sheet accepts (default: 1048576).
func WithMaxRows(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.maxRows = n
		}
	}
}

// WithDefaultWidth sets the width of columns that were never sized.
func WithDefaultWidth(w float64) Option {
	return func(o *Options) {
		if w > 0 {
			o.defaultWidth = w
		}
	}
}

// WithDefaultHeight sets the height of rows that were never sized.
func WithDefaultHeight(h float64) Option {
	return func(o *Options) {
		if h > 0 {
			o.defaultHeight = h
		}
	}
}

// WithWidthPadding sets the padding AdjustToContents adds to the widest text.
func WithWidthPadding(pad float64) Option {
	return func(o *Options) { o.widthPadding = pad }
}

// WithWidthBounds sets the floor and ceiling AdjustToContents clamps to.
func WithWidthBounds(lo, hi float64) Option {
	return func(o *Options) {
		if lo >= 0 && hi >= lo {
			o.minWidth = lo
			o.maxWidth = hi
		}
	}
}

// WithDefaultFont sets the font of cells that carry no font of their own.
func WithDefaultFont(f Font) Option {
	return func(o *Options) { o.defaultFont = f }
}

// WithMeasurer sets the text measurement used by AdjustToContents.
func WithMeasurer(m Measurer) Option {
	return func(o *Options) {
		if m != nil {
			o.measurer = m
		}
	}
}

// WithRenderer sets how cell values are turned into display text.
func WithRenderer(r Renderer) Option {
	return func(o *Options) {
		if r != nil {
			o.renderer = r
		}
	}
}

// WithLogger sets the logger for structural edits (default: logrus standard logger).
func WithLogger(l logrus.FieldLogger) Option {
	return func(o *Options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithReferenceListener adds a listener that is notified when an edit
// invalidates a range or a formula reference.
func WithReferenceListener(l ReferenceListener) Option {
	return func(o *Options) { o.listeners = append(o.listeners, l) }
}
