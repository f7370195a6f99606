package cdr

// Options configure encoding and decoding.
type Options struct {
	// NanosecondDurations encodes sub-second part of durations as nanoseconds instead of 1/2^32 fraction.
	NanosecondDurations bool

	// BigEndian selects big-endian body when encoding.
	BigEndian bool

	// BestEffort keeps fields decoded before a failure instead of leaving the target untouched.
	BestEffort bool
}

// Option sets an option.
type Option func(o *Options)

// WithNanosecondDurations selects the nanosecond encoding of durations.
func WithNanosecondDurations() Option {
	return func(o *Options) {
		o.NanosecondDurations = true
	}
}

// WithBigEndian selects big-endian encoding.
func WithBigEndian() Option {
	return func(o *Options) {
		o.BigEndian = true
	}
}

// BestEffort makes decoder keep partially decoded data.
func BestEffort() Option {
	return func(o *Options) {
		o.BestEffort = true
	}
}

// NewOptions applies options.
func NewOptions(opts ...Option) Options {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ParameterListScheme returns the parameter list scheme matching the byte order.
func (o Options) ParameterListScheme() Scheme {
	if o.BigEndian {
		return SchemePLCDRBE
	}
	return SchemePLCDRLE
}
