package csvimport

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestErrorCollection(t *testing.T) {
	t.Run("Messages are localized", func(t *testing.T) {
		ec := NewErrorCollection(language.Persian, 0, 0)
		ec.AddRowError(2, "فیلد name الزامی است")
		ec.AddRowPanic(3, "boom")
		ec.AddGeneral("disk full")

		assert.Equal(t, []string{
			"سطر 2: فیلد name الزامی است",
			"سطر 3: خطا در پردازش - boom",
			"خطای کلی: disk full",
		}, ec.First())
	})

	t.Run("English rendering", func(t *testing.T) {
		ec := NewErrorCollection(language.English, 0, 0)
		ec.AddRowError(7, "Invalid price format")

		assert.Equal(t, []string{"Row 7: Invalid price format"}, ec.Last())
	})

	t.Run("Head and tail windows", func(t *testing.T) {
		ec := NewErrorCollection(language.English, 2, 3)
		for i := 1; i <= 6; i++ {
			ec.Add(fmt.Sprintf("e%d", i))
		}

		assert.Equal(t, []string{"e1", "e2"}, ec.First())
		assert.Equal(t, []string{"e4", "e5", "e6"}, ec.Last())
		assert.Equal(t, 6, ec.TotalCount())
		assert.True(t, ec.HasErrors())
		assert.True(t, ec.IsTruncated())
	})

	t.Run("Empty", func(t *testing.T) {
		ec := NewErrorCollection(language.English, 0, 0)

		assert.False(t, ec.HasErrors())
		assert.False(t, ec.IsTruncated())
		assert.Empty(t, ec.First())
		assert.Empty(t, ec.Last())
	})

	t.Run("Returned slices are copies", func(t *testing.T) {
		ec := NewErrorCollection(language.English, 1, 1)
		ec.Add("a")
		first := ec.First()
		first[0] = "changed"

		assert.Equal(t, []string{"a"}, ec.First())
	})
}
