package services

import "strings"

// ConversionFactor переводит проданную единицу в атомарные (таблетки)
// по имени модификатора упаковки: стрип — 10 таблеток, коробка — 100.
// Пустое имя — штучная продажа, фактор 1. Сравнение без учёта регистра,
// по вхождению подстроки.
func ConversionFactor(modifierName string) int64 {
	if modifierName == "" {
		return 1
	}
	name := strings.ToLower(modifierName)
	if strings.Contains(name, "strip") {
		return 10
	}
	if strings.Contains(name, "box") {
		return 100
	}
	return 1
}

// atomicQuantity — итоговое количество к списанию/возврату для позиции заказа.
// Учитывается только первый модификатор, остальные описывают не упаковку.
func atomicQuantity(quantity int64, modifierNames []string) int64 {
	factor := int64(1)
	if len(modifierNames) > 0 {
		factor = ConversionFactor(modifierNames[0])
	}
	return quantity * factor
}
