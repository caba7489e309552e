package validate

import "testing"

func TestForm(t *testing.T) {
	errs := Form(
		Field{Name: "username", Value: "  ", Required: true},
		Field{Name: "email", Value: "not-an-email", Kind: EmailField, Required: true},
		Field{Name: "password", Value: "12345", Kind: PasswordField, Required: true},
		Field{Name: "nickname", Value: ""},
	)
	want := FieldErrors{
		"username": MsgRequired,
		"email":    MsgEmail,
		"password": MsgPassword,
	}
	if len(errs) != len(want) {
		t.Fatalf("got %v, want %v", errs, want)
	}
	for k, v := range want {
		if errs[k] != v {
			t.Errorf("%s: got %q, want %q", k, errs[k], v)
		}
	}

	ok := Form(
		Field{Name: "email", Value: "a@b.co", Kind: EmailField, Required: true},
		Field{Name: "password", Value: "123456", Kind: PasswordField, Required: true},
	)
	if !ok.OK() {
		t.Fatalf("expected valid form, got %v", ok)
	}
}

func TestHelpers(t *testing.T) {
	if id, ok := ID("42"); !ok || id != 42 {
		t.Errorf("ID(42) = %d %v", id, ok)
	}
	for _, bad := range []string{"", "0", "-3", "abc"} {
		if _, ok := ID(bad); ok {
			t.Errorf("ID(%q) should fail", bad)
		}
	}
	if Qty("0") != 1 || Qty("500") != 50 || Qty("3") != 3 {
		t.Error("Qty clamp broken")
	}
	if _, ok := Message("   "); ok {
		t.Error("blank message accepted")
	}
	if _, ok := Username("a b"); ok {
		t.Error("username with space accepted")
	}
}
