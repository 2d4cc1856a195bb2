package notifications

import "fmt"

type template struct {
	title string
	body  string
}

type locale struct {
	someone     string
	permissions map[string]string
	templates   map[Type]template
}

var locales = map[string]locale{
	"en": {
		someone: "Someone",
		permissions: map[string]string{
			"read":       "view only",
			"read_write": "view and edit",
		},
		templates: map[Type]template{
			TypeInvite:           {"New ledger invite", "%[1]s invited you to their gift ledger with %[2]s access."},
			TypePermissionUpdate: {"Access updated", "%[1]s changed their access to your ledger to %[2]s."},
			TypeRevoked:          {"Connection removed", "%[1]s removed the ledger connection."},
			TypeViewed:           {"Ledger viewed", "%[1]s viewed your gift ledger."},
			TypeAccepted:         {"Invite accepted", "%[1]s accepted your ledger invite."},
			TypeGeneral:          {"Notice", "%[3]s"},
		},
	},
	"ko": {
		someone: "누군가",
		permissions: map[string]string{
			"read":       "보기 전용",
			"read_write": "보기 및 편집",
		},
		templates: map[Type]template{
			TypeInvite:           {"새 장부 공유 초대", "%[1]s님이 축의금 장부에 %[2]s 권한으로 초대했습니다."},
			TypePermissionUpdate: {"권한 변경", "%[1]s님이 장부 접근 권한을 %[2]s(으)로 변경했습니다."},
			TypeRevoked:          {"연결 해제", "%[1]s님이 장부 연결을 해제했습니다."},
			TypeViewed:           {"장부 열람", "%[1]s님이 회원님의 축의금 장부를 열람했습니다."},
			TypeAccepted:         {"초대 수락", "%[1]s님이 장부 공유 초대를 수락했습니다."},
			TypeGeneral:          {"알림", "%[3]s"},
		},
	},
}

// Compose renders the title and body for t in lang. Unknown languages fall
// back to English; unknown types render as {t, ""}.
func Compose(t Type, lang string, payload Payload) Message {
	loc, ok := locales[lang]
	if !ok {
		loc = locales["en"]
	}

	tmpl, ok := loc.templates[t]
	if !ok {
		return Message{Title: string(t)}
	}

	name := payload.Name
	if name == "" {
		name = loc.someone
	}
	permission, ok := loc.permissions[payload.Permission]
	if !ok {
		permission = payload.Permission
	}

	return Message{
		Title: tmpl.title,
		Body:  fmt.Sprintf(tmpl.body, name, permission, payload.Message),
	}
}
