package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// QueryInt 解析整数查询参数，缺失或非法时返回默认值
func QueryInt(c *gin.Context, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
