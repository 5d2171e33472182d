package utils_test

import (
	"bytes"
	"testing"

	"github.com/e1732a364fed/vless_simple/utils"
)

func TestStrToUUID(t *testing.T) {
	const str = "c373c80c-58e4-4e64-8db5-40096905ec58"

	u, err := utils.StrToUUID(str)
	if err != nil {
		t.Log("parse canonical failed", err)
		t.FailNow()
	}

	want := []byte{0xc3, 0x73, 0xc8, 0x0c, 0x58, 0xe4, 0x4e, 0x64, 0x8d, 0xb5, 0x40, 0x09, 0x69, 0x05, 0xec, 0x58}
	if !bytes.Equal(u[:], want) {
		t.Log("bytes mismatch", u)
		t.FailNow()
	}

	if utils.UUIDToStr(u) != str {
		t.Log("round trip mismatch", utils.UUIDToStr(u))
		t.Fail()
	}
}

func TestStrToUUID_Invalid(t *testing.T) {
	//32字符无减号形式虽然被 google/uuid 接受, 但本作要求标准形式
	for _, s := range []string{
		"",
		"c373c80c58e44e648db540096905ec58",
		"c373c80c-58e4-4e64-8db5-40096905ec5", //35
		"g373c80c-58e4-4e64-8db5-40096905ec58",
	} {
		if _, err := utils.StrToUUID(s); err == nil {
			t.Log("should fail for", s)
			t.FailNow()
		}
	}
}

func TestGenerateUUIDStr(t *testing.T) {
	s := utils.GenerateUUIDStr()
	if len(s) != 36 {
		t.FailNow()
	}
	if _, err := utils.StrToUUID(s); err != nil {
		t.Log(s, err)
		t.FailNow()
	}
}
