package hoyolab

import (
	"crypto/md5"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"
)

// Salt for the dynamic security header the Genshin Impact endpoints require.
const dsSalt = "6s25p5ox5y14umn1p61aqyyvbvvl3lrt"

const dsRandomChars = "abcdefghijklmnopqrstuvwxyz0123456789"

func dsToken(now time.Time) string {
	t := now.Unix()
	r := randomString(6)
	sum := md5.Sum([]byte(fmt.Sprintf("salt=%s&t=%d&r=%s", dsSalt, t, r)))
	return fmt.Sprintf("%d,%s,%x", t, r, sum)
}

func randomString(n int) string {
	var b strings.Builder
	b.Grow(n)
	for range n {
		b.WriteByte(dsRandomChars[rand.IntN(len(dsRandomChars))])
	}
	return b.String()
}
