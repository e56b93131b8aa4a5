package gateway

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
)

// Sign 计算 PhonePe X-VERIFY 校验串
//
// 算法：sha256(base64(payload) + apiPath + saltKey) 的 hex，再拼 "###" + saltIndex。
// apiPath 必须和实际请求路径完全一致，否则对端验签失败且不会报给调用方
func Sign(payloadBase64, apiPath, saltKey string, saltIndex int) string {
	sum := sha256.Sum256([]byte(payloadBase64 + apiPath + saltKey))
	return hex.EncodeToString(sum[:]) + "###" + strconv.Itoa(saltIndex)
}
