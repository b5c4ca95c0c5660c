package service

import "strings"

// maskEmail hides the local part of an address except a short prefix:
// "asha@example.com" becomes "as****@example.com". Anything that does
// not look like an address masks fully.
func maskEmail(email string) string {
	name, domain, ok := strings.Cut(email, "@")
	if !ok {
		return "****"
	}
	visible := 2
	if len(name) <= 2 {
		visible = 1
	}
	if len(name) < visible {
		visible = len(name)
	}
	return name[:visible] + "****@" + domain
}

// maskPhone keeps only the last four digits.
func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "********"
	}
	return "*******" + phone[len(phone)-4:]
}
