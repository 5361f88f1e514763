package config

import "sort"

// sortedKeys 返回排序后的键，保证错误信息稳定
func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
