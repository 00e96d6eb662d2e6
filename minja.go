// Package minja is a restricted Jinja template engine for LLM chat
// prompt templates. It implements the subset of Jinja that chat
// templates in the wild actually use (interpolation, conditionals,
// loops with the full loop object, macros, filters, tests and
// whitespace control) with Python-compatible output semantics, so a
// template renders byte-identically to the reference Python tooling.
//
// Basic usage:
//
//	tmpl, err := minja.Parse("Hello {{ name }}!", minja.Options{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	ctx := minja.NewContext(minja.None())
//	ctx.Set("name", minja.String("world"))
//	out, err := tmpl.Render(ctx)
//
// Bindings usually come from a JSON document; FromJSON preserves object
// key order, which matters for dict iteration and serialization:
//
//	bindings, err := minja.FromJSON(payload)
//	out, err := tmpl.Render(minja.NewContext(bindings))
//
// Hosts can expose native functions to templates with Func, for example
// a date helper:
//
//	ctx.Set("strftime_now", minja.Func("strftime_now", func(args []minja.Value) (minja.Value, error) {
//		return minja.String(time.Now().Format("2006-01-02")), nil
//	}))
//
// The engine is deliberately not a full Jinja: there is no template
// inheritance, no includes, no autoescaping and no sandboxed attribute
// access, because chat templates need none of it. Rendering is
// deterministic and performs no I/O.
package minja
