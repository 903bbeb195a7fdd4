package orders

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewOrderCodeFormat(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.Regexp(t, `^FF-\d{14}-\d{4}$`, NewOrderCode())
	}
}
