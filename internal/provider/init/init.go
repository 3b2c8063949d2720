// Package init exists solely to trigger provider registration via import
// side-effects. Import this package once in your main or cmd layer:
//
//	import _ "github.com/sanix-darker/grok-search/internal/provider/init"
//
// This registers the built-in providers ("grok" and the "openai-compat"
// alias for self-hosted or proxied endpoints) with the global
// provider.Registry.
package init

import (
	_ "github.com/sanix-darker/grok-search/internal/provider/grok"
)
