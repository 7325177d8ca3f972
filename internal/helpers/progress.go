package helpers

import (
	"github.com/schollz/progressbar/v3"
)

type ProgressBar struct {
	Set   func(int)
	Add   func(int)
	Close func()
}

func CreateProgressBar(total int, label string) ProgressBar {
	p := progressbar.Default(int64(total), label)
	return ProgressBar{
		func(i int) {
			_ = p.Set(i)
		}, func(i int) {
			_ = p.Add(i)
		}, func() {
			_ = p.Close()
		},
	}
}

func SilentProgressBar() ProgressBar {
	return ProgressBar{func(int) {}, func(int) {}, func() {}}
}
