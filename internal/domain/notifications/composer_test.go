package notifications

import "testing"

func TestComposeTemplates(t *testing.T) {
	cases := []struct {
		name    string
		typ     Type
		lang    string
		payload Payload
		want    Message
	}{
		{
			name:    "permission update english",
			typ:     TypePermissionUpdate,
			lang:    "en",
			payload: Payload{Name: "Minho", Permission: "read_write"},
			want:    Message{Title: "Access updated", Body: "Minho changed their access to your ledger to view and edit."},
		},
		{
			name:    "viewed korean",
			typ:     TypeViewed,
			lang:    "ko",
			payload: Payload{Name: "민호"},
			want:    Message{Title: "장부 열람", Body: "민호님이 회원님의 축의금 장부를 열람했습니다."},
		},
		{
			name: "missing name english",
			typ:  TypeRevoked,
			lang: "en",
			want: Message{Title: "Connection removed", Body: "Someone removed the ledger connection."},
		},
		{
			name: "missing name korean",
			typ:  TypeRevoked,
			lang: "ko",
			want: Message{Title: "연결 해제", Body: "누군가님이 장부 연결을 해제했습니다."},
		},
		{
			name:    "unknown language falls back to english",
			typ:     TypeAccepted,
			lang:    "fr",
			payload: Payload{Name: "Ara"},
			want:    Message{Title: "Invite accepted", Body: "Ara accepted your ledger invite."},
		},
		{
			name:    "general uses message",
			typ:     TypeGeneral,
			lang:    "en",
			payload: Payload{Message: "Thank-you cards are due"},
			want:    Message{Title: "Notice", Body: "Thank-you cards are due"},
		},
		{
			name: "unknown type",
			typ:  Type("birthday"),
			lang: "ko",
			want: Message{Title: "birthday"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Compose(tc.typ, tc.lang, tc.payload)
			if got != tc.want {
				t.Fatalf("Compose() = %+v, want %+v", got, tc.want)
			}
		})
	}
}
