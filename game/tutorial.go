package game

import (
	"github.com/milk9111/lenstrace/scene"
)

// Tutorial pages through the children of the tutorial root, keeping only
// the current page enabled.
type Tutorial struct {
	pages []scene.Node
	step  int
}

func NewTutorial(root scene.Node) *Tutorial {
	t := &Tutorial{}
	if root == nil {
		logger.Warningf("tutorial root not found; tutorial has no pages")
		return t
	}
	t.pages = root.Children()
	return t
}

// Start shows the first page.
func (t *Tutorial) Start() {
	if t == nil {
		return
	}
	t.step = 0
	t.show()
}

func (t *Tutorial) Step() int {
	if t == nil {
		return 0
	}
	return t.step
}

func (t *Tutorial) Len() int {
	if t == nil {
		return 0
	}
	return len(t.pages)
}

// Next advances one page. It reports false when already on the last page.
func (t *Tutorial) Next() bool {
	if t == nil || t.step >= len(t.pages)-1 {
		return false
	}
	t.step++
	t.show()
	return true
}

// Prev goes back one page. It reports false on the first page.
func (t *Tutorial) Prev() bool {
	if t == nil || t.step == 0 {
		return false
	}
	t.step--
	t.show()
	return true
}

func (t *Tutorial) show() {
	for i, p := range t.pages {
		scene.SetTreeEnabled(p, i == t.step, scene.Excluded)
	}
}
