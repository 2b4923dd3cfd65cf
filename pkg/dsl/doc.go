/*
Package dsl provides a fluent Go builder for Turing machine configurations.

It is an alternative to YAML or JSON files when machines are generated by code
or written inline in tests. Every rule defaults to keeping the read symbol,
staying in place and remaining in its state; only the differences need to be
spelled out.

Example usage:

	cfg, err := dsl.New("q0").
		Halt("qh").
		Tape("11").
		On("q0", "1").Right().Go("q0").
		On("q0", "_").Write("1").Go("qh").
		Build()
	if err != nil {
		return err
	}

	m, err := turing.New(cfg)
*/
package dsl
