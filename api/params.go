package api

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID 读取 :id，非法 id 与记录不存在一样返回 404
func pathID(c *gin.Context, notFound string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		NotFound(c, notFound)
		return 0, false
	}
	return uint(id), true
}
