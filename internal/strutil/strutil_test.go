package strutil

import "testing"

func TestToSnakeCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"userName", "user_name"},
		{"UserName", "user_name"},
		{"HTTPServer", "http_server"},
		{"already_snake", "already_snake"},
		{"with-dash", "with_dash"},
		{"with space", "with_space"},
		{"ID", "id"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ToSnakeCase(tt.in); got != tt.want {
				t.Errorf("ToSnakeCase(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	if got := TableName("", "user"); got != "user" {
		t.Errorf("TableName(\"\", user) = %q, want %q", got, "user")
	}
	if got := TableName("app_", "user"); got != "app_user" {
		t.Errorf("TableName(app_, user) = %q, want %q", got, "app_user")
	}
}

func TestSQLNames(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"index", IndexName("user", "email"), "idx_user_email"},
		{"index multi", IndexName("user", "a", "b"), "idx_user_a_b"},
		{"unique", UniqueIndexName("user", "email"), "uniq_user_email"},
		{"fk", ForeignKeyName("post", "author_id"), "fk_post_author_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}
