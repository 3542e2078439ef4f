package repository

import (
	"strconv"
	"strings"
)

// Rebind turns ? placeholders into PostgreSQL $n placeholders
func Rebind(query string) string {
	var builder strings.Builder
	builder.Grow(len(query) + 8)
	argIndex := 1
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			builder.WriteString("$")
			builder.WriteString(strconv.Itoa(argIndex))
			argIndex++
			continue
		}
		builder.WriteByte(query[i])
	}
	return builder.String()
}
