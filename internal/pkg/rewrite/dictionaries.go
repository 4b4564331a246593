package rewrite

// Fixed dictionaries driving the deterministic rewrite steps. All lookups are
// read-only after init, so the maps are safe for concurrent use.

// typoCorrections maps common misspellings to their corrections. Applied as
// exact substring replacement on the lowercased query.
var typoCorrections = map[string]string{
	"outlok":      "outlook",
	"outllook":    "outlook",
	"pasword":     "password",
	"passowrd":    "password",
	"erorr":       "error",
	"eroor":       "error",
	"conect":      "connect",
	"conection":   "connection",
	"conectivity": "connectivity",
	"acess":       "access",
	"acces":       "access",
	"instalation": "installation",
	"intall":      "install",
	"netwrok":     "network",
	"netowrk":     "network",
	"pritn":       "print",
	"printe":      "printer",
	"screeen":     "screen",
	"computre":    "computer",
	"compter":     "computer",
}

// abbreviations maps IT shorthand to an appended expansion. Matches on word
// boundaries, case-insensitive; the expansion is appended, never substituted.
var abbreviations = map[string]string{
	"vpn":   "VPN Virtual Private Network",
	"ad":    "AD Active Directory",
	"dns":   "DNS Domain Name System",
	"dhcp":  "DHCP Dynamic Host Configuration Protocol",
	"smtp":  "SMTP Simple Mail Transfer Protocol",
	"imap":  "IMAP Internet Message Access Protocol",
	"pop3":  "POP3 Post Office Protocol",
	"ssl":   "SSL TLS Secure Sockets Layer Transport Layer Security",
	"https": "HTTPS HTTP Secure",
	"ftp":   "FTP File Transfer Protocol",
	"ssh":   "SSH Secure Shell",
	"rdp":   "RDP Remote Desktop Protocol",
	"sql":   "SQL database query",
	"api":   "API Application Programming Interface",
	"sso":   "SSO Single Sign-On",
	"mfa":   "MFA Multi-Factor Authentication 2FA",
	"2fa":   "2FA Two-Factor Authentication MFA",
	"ldap":  "LDAP Lightweight Directory Access Protocol",
	"saml":  "SAML Security Assertion Markup Language",
	"oauth": "OAuth authorization authentication",
	"pc":    "PC computer workstation desktop",
	"vm":    "VM virtual machine VMware Hyper-V",
	"os":    "OS operating system Windows Linux",
	"cpu":   "CPU processor performance slow",
	"ram":   "RAM memory",
	"hdd":   "HDD hard drive disk storage",
	"ssd":   "SSD solid state drive storage",
	"lan":   "LAN local area network",
	"wan":   "WAN wide area network",
	"wifi":  "WiFi wireless network connection",
	"ip":    "IP address network",
	"mac":   "MAC address network",
	"usb":   "USB port device",
	"bsod":  "BSOD Blue Screen of Death crash",
	"oom":   "OOM Out of Memory",
	"kb":    "KB knowledge base article",
	"inc":   "INC incident ticket",
	"wo":    "WO work order",
	"cr":    "CR change request",
	"sla":   "SLA Service Level Agreement",
	"itsm":  "ITSM IT Service Management",
	"itil":  "ITIL IT Infrastructure Library",
}

// synonyms maps a recognized term to alternatives; only the first synonym is
// appended, and only when not already present in the query.
var synonyms = map[string][]string{
	"slow":     {"performance", "lag", "freeze", "unresponsive"},
	"crash":    {"freeze", "hang", "not responding", "blue screen"},
	"login":    {"sign in", "logon", "authenticate", "access"},
	"password": {"credential", "passcode", "secret"},
	"reset":    {"restore", "reinitialize", "clear"},
	"error":    {"issue", "problem", "failure", "exception"},
	"update":   {"upgrade", "patch", "install"},
	"connect":  {"access", "link", "join", "network"},
	"print":    {"printer", "printing", "document"},
	"email":    {"mail", "outlook", "message"},
	"install":  {"setup", "deploy", "configure"},
	"delete":   {"remove", "uninstall", "clear"},
}

// arabicTerms maps Arabic IT vocabulary to appended English equivalents.
// Applied only when the query contains Arabic script.
var arabicTerms = map[string]string{
	"تذكرة":       "ticket incident request",
	"بلاغ":        "incident report ticket",
	"كلمة المرور": "password credential",
	"كلمة السر":   "password credential",
	"شبكة":        "network VPN WiFi connection",
	"الشبكة":      "network VPN WiFi connection",
	"خطأ":         "error issue problem",
	"مشكلة":       "problem issue error",
	"عطل":         "failure outage broken",
	"طابعة":       "printer printing",
	"الطابعة":     "printer printing",
	"بريد":        "email mail outlook",
	"البريد":      "email mail outlook",
	"حاسوب":       "computer PC workstation",
	"جهاز":        "device computer machine",
	"خادم":        "server",
	"برنامج":      "software application program",
	"تثبيت":       "install installation setup",
	"تحديث":       "update upgrade patch",
	"صلاحية":      "permission access grant",
	"صلاحيات":     "permissions access rights",
}

// arabiziTerms maps transliterated (Arabic-script renderings of English)
// IT words to their English originals.
var arabiziTerms = map[string]string{
	"باسوورد": "password",
	"باسورد":  "password",
	"ايميل":   "email",
	"الايميل": "email",
	"سيرفر":   "server",
	"السيرفر": "server",
	"ريست":    "reset",
	"راوتر":   "router",
	"برنتر":   "printer",
	"لابتوب":  "laptop",
	"سيستم":   "system",
	"نتوورك":  "network",
	"اكاونت":  "account",
	"لوق ان":  "login",
}
