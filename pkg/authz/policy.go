package authz

// TokenEntry 一組 token 對應的身份設定，直接對應 yaml 配置
type TokenEntry struct {
	Token        string   `yaml:"token"`
	Name         string   `yaml:"name"`
	Capabilities []string `yaml:"capabilities"`
}

// Policy token -> Subject 的靜態對照表
// 建好之後唯讀，可以被多個 goroutine 同時查詢
type Policy struct {
	subjects map[string]*Subject
}

// NewPolicy 由設定檔條目建立 Policy
func NewPolicy(entries []TokenEntry) *Policy {
	subjects := make(map[string]*Subject, len(entries))
	for _, entry := range entries {
		caps := make([]Capability, 0, len(entry.Capabilities))
		for _, c := range entry.Capabilities {
			caps = append(caps, Capability(c))
		}
		subjects[entry.Token] = NewSubject(entry.Name, caps...)
	}
	return &Policy{subjects: subjects}
}

// Resolve 以 token 解析身份
// token 不存在時回傳 ErrNoAuthenticatedSubject
func (p *Policy) Resolve(token string) (*Subject, error) {
	subject, ok := p.subjects[token]
	if !ok {
		return nil, ErrNoAuthenticatedSubject
	}
	return subject, nil
}
