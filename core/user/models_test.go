package user

import (
	"bytes"
	"testing"
)

func TestUser_SetPassword(t *testing.T) {
	var usr User
	if err := usr.SetPassword("s3cr3t!Pass"); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	if len(usr.PasswordHash) == 0 {
		t.Fatal("PasswordHash not set")
	}
	if bytes.Contains(usr.PasswordHash, []byte("s3cr3t!Pass")) {
		t.Error("password stored in clear")
	}

	if err := usr.CheckPassword("s3cr3t!Pass"); err != nil {
		t.Errorf("CheckPassword() failed: %v", err)
	}
	if err := usr.CheckPassword("lol"); err == nil {
		t.Error("CheckPassword() accepted a wrong password")
	}
}
