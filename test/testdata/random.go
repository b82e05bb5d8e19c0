package testdata

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
)

func RandomName() string {
	return gofakeit.Company()
}

func RandomPersonName() string {
	return gofakeit.Name()
}

func RandomDescription() string {
	return gofakeit.Sentence(12)
}

func RandomEmail() string {
	return gofakeit.Email()
}

func RandomFilename(ext string) string {
	return fmt.Sprintf("%s.%s", strings.ToLower(gofakeit.Word()), ext)
}
