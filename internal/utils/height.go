package utils

import (
	"hash/fnv"
	"math/rand"
)

// EstimateHeightCm 为缺少身高数据的演员生成一个展示用估值（厘米）。
// 这是历史数据缺口的回填方案：同一姓名始终得到同一数值，
// 等真实资料补齐后应删除这条路径。
func EstimateHeightCm(name string) float64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	rng := rand.New(rand.NewSource(int64(h.Sum64())))

	// 均值 175cm，标准差 8cm，截断到 [150, 200]
	height := 175 + rng.NormFloat64()*8
	if height < 150 {
		height = 150
	}
	if height > 200 {
		height = 200
	}
	return float64(int(height*10)) / 10
}
