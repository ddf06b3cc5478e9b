package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConversionFactor(t *testing.T) {
	testCases := []struct {
		name     string
		modifier string
		expected int64
	}{
		{name: "пустое имя — штучная продажа", modifier: "", expected: 1},
		{name: "strip в нижнем регистре", modifier: "strip", expected: 10},
		{name: "Strip с заглавной", modifier: "Strip", expected: 10},
		{name: "STRIP капсом", modifier: "STRIP", expected: 10},
		{name: "strip как часть фразы", modifier: "Jual per strip", expected: 10},
		{name: "box", modifier: "box", expected: 100},
		{name: "Box 100 tablet", modifier: "Box 100 tablet", expected: 100},
		{name: "неизвестная упаковка", modifier: "botol", expected: 1},
		{name: "произвольный текст", modifier: "tanpa kemasan", expected: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ConversionFactor(tc.modifier))
		})
	}
}

func TestAtomicQuantity(t *testing.T) {
	t.Run("без модификаторов фактор 1", func(t *testing.T) {
		assert.Equal(t, int64(3), atomicQuantity(3, nil))
	})

	t.Run("2 стрипа это 20 таблеток", func(t *testing.T) {
		assert.Equal(t, int64(20), atomicQuantity(2, []string{"strip"}))
	})

	t.Run("учитывается только первый модификатор", func(t *testing.T) {
		assert.Equal(t, int64(20), atomicQuantity(2, []string{"strip", "box"}))
	})

	t.Run("коробка", func(t *testing.T) {
		assert.Equal(t, int64(100), atomicQuantity(1, []string{"Box"}))
	})
}
