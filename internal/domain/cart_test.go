package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartAddIncrementsExistingLine(t *testing.T) {
	cart := Cart{ID: "cart-1"}

	cart.Add("book-1", 2)
	cart.Add("book-2", 1)
	cart.Add("book-1", 3)

	assert.Len(t, cart.Lines, 2)
	line, ok := cart.Line("book-1")
	assert.True(t, ok)
	assert.Equal(t, 5, line.Quantity)
}

func TestCartRemoveAbsentBookIsNoOp(t *testing.T) {
	cart := Cart{ID: "cart-1"}
	cart.Add("book-1", 1)

	cart.Remove("book-missing")

	assert.Len(t, cart.Lines, 1)
}

func TestCartPreservesInsertionOrder(t *testing.T) {
	cart := Cart{ID: "cart-1"}
	cart.Add("book-c", 1)
	cart.Add("book-a", 1)
	cart.Add("book-b", 1)
	cart.Remove("book-a")

	assert.Equal(t, "book-c", cart.Lines[0].BookID)
	assert.Equal(t, "book-b", cart.Lines[1].BookID)
}

func TestCartCloneIsIndependent(t *testing.T) {
	cart := Cart{ID: "cart-1"}
	cart.Add("book-1", 1)

	clone := cart.Clone()
	clone.Add("book-1", 9)

	line, _ := cart.Line("book-1")
	assert.Equal(t, 1, line.Quantity)
}
