package register_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/breeew/stellar-api/pkg/register"
)

type testKey struct{}

func TestResolveFuncHandlers(t *testing.T) {
	var calls []string
	register.RegisterFunc(testKey{}, func(s string) { calls = append(calls, "a:"+s) })
	register.RegisterFunc(testKey{}, func(s string) { calls = append(calls, "b:"+s) })
	// different argument type under the same key is skipped
	register.RegisterFunc(testKey{}, func(i int) { calls = append(calls, "int") })

	for _, h := range register.ResolveFuncHandlers[string](testKey{}) {
		h("x")
	}
	assert.Equal(t, []string{"a:x", "b:x"}, calls)
}
