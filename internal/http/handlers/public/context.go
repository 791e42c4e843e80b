package public

import (
	"strconv"
	"strings"

	"github.com/Theloho/live-commerce-sub002/internal/http/response"
	"github.com/Theloho/live-commerce-sub002/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	headerUserID         = "X-User-Id"
	headerSocialProvider = "X-Social-Provider"
	headerSocialID       = "X-Social-Id"
)

// resolveIdentity 从请求头解析订单归属身份。
// 注册账号携带 X-User-Id（校验账号存在），匿名社交登录携带 X-Social-Provider 与 X-Social-Id，二者取其一。
func (h *Handler) resolveIdentity(c *gin.Context) (repository.OrderIdentity, bool) {
	if raw := strings.TrimSpace(c.GetHeader(headerUserID)); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			respondError(c, response.CodeBadRequest, "invalid user id", err)
			return repository.OrderIdentity{}, false
		}
		user, err := h.UserRepo.GetByID(uint(userID))
		if err != nil {
			respondError(c, response.CodeInternal, "resolve user failed", err)
			return repository.OrderIdentity{}, false
		}
		if user == nil {
			respondError(c, response.CodeUnauthorized, "unknown user", nil)
			return repository.OrderIdentity{}, false
		}
		return repository.AccountIdentity(user.ID), true
	}

	socialID := strings.TrimSpace(c.GetHeader(headerSocialID))
	if socialID != "" {
		provider := strings.TrimSpace(c.GetHeader(headerSocialProvider))
		return repository.AnonymousIdentity(provider, socialID), true
	}

	respondError(c, response.CodeUnauthorized, "identity required", nil)
	return repository.OrderIdentity{}, false
}
