package utils

import (
	"github.com/google/uuid"
)

// StrToUUID 只接受标准的36字符 hex-and-dash 形式.
// google/uuid 本身还支持 urn 前缀、带大括号以及32字符无减号的形式,
// 但本作的配置统一要求标准形式, 所以先查长度再Parse.
func StrToUUID(s string) (out [16]byte, err error) {
	if len(s) != 36 {
		err = ErrInErr{ErrDesc: "invalid uuid string, must be 36 characters", ErrDetail: ErrInvalidData, Data: s}
		return
	}
	u, e := uuid.Parse(s)
	if e != nil {
		err = ErrInErr{ErrDesc: "invalid uuid string", ErrDetail: e, Data: s}
		return
	}
	return [16]byte(u), nil
}

func UUIDToStr(u [16]byte) string {
	return uuid.UUID(u).String()
}

func GenerateUUIDStr() string {
	return uuid.NewString()
}
