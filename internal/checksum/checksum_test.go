package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("")
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := Sum(nil); got != empty {
		t.Errorf("Sum(nil) = %s", got)
	}
}

func TestJSON(t *testing.T) {
	type rec struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
	a, err := JSON(rec{ID: "ST-001", Name: "Gangnam"})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := JSON(rec{ID: "ST-001", Name: "Gangnam"})
	c, _ := JSON(rec{ID: "ST-001", Name: "Gangnam 2"})
	if a != b {
		t.Error("equal values should share a tag")
	}
	if a == c {
		t.Error("different values should not share a tag")
	}
	if _, err := JSON(make(chan int)); err == nil {
		t.Error("expected error for unencodable value")
	}
}
