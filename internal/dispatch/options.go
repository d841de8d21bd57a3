package dispatch

// BindOptions carries the host-level modifier flags for one binding.
type BindOptions struct {
	// Silent suppresses host echo of the invocation.
	Silent bool

	// NoRemap binds the invocation literally, immune to further user
	// remapping on the host.
	NoRemap bool

	// Expr selects the expression stub form over the command form. It
	// changes how the stub text is composed, not what it does.
	Expr bool
}

// DefaultBindOptions returns the options used when a caller supplies
// none: silent and non-remappable.
func DefaultBindOptions() BindOptions {
	return BindOptions{Silent: true, NoRemap: true}
}

// orDefault resolves an optional options pointer.
func orDefault(opts *BindOptions) BindOptions {
	if opts == nil {
		return DefaultBindOptions()
	}
	return *opts
}
