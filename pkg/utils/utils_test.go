package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenSpecIDStr(t *testing.T) {
	SetupIDWorker(1)

	a, b := GenSpecIDStr(), GenSpecIDStr()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}

func Test_ParseAcceptLanguage(t *testing.T) {
	res := ParseAcceptLanguage("en;q=0.7,zh-CN,zh;q=0.9,en-US;q=0.8")
	assert.Len(t, res, 4)
	assert.Equal(t, "zh-CN", res[0].Tag)
	assert.Equal(t, "zh", res[1].Tag)
	assert.Equal(t, "en", res[3].Tag)
}

func TestRandomStr(t *testing.T) {
	assert.Len(t, RandomStr(32), 32)
}
