package digikey

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/oauth2"
)

const tokenFileName = "token.json"

// storedToken 落盘的 token，带上 client_id 和环境，凭据变了就不复用
type storedToken struct {
	ClientID string        `json:"client_id"`
	Sandbox  bool          `json:"sandbox"`
	Token    *oauth2.Token `json:"token"`
}

// fileTokenSource 先读 storage_path 下的 token，过期再向 base 申请并写回
type fileTokenSource struct {
	mu       sync.Mutex
	path     string
	clientID string
	sandbox  bool
	base     oauth2.TokenSource
}

func newFileTokenSource(dir, clientID string, sandbox bool, base oauth2.TokenSource) *fileTokenSource {
	path := ""
	if dir != "" {
		path = filepath.Join(dir, tokenFileName)
	}
	return &fileTokenSource{path: path, clientID: clientID, sandbox: sandbox, base: base}
}

func (s *fileTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if tok := s.load(); tok != nil && tok.Valid() {
		return tok, nil
	}

	tok, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("fetch access token: %w", err)
	}
	if err := s.save(tok); err != nil {
		log.Warn("token 写入失败 [%s]: %v", s.path, err)
	}
	return tok, nil
}

func (s *fileTokenSource) load() *oauth2.Token {
	if s.path == "" {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil
	}
	var st storedToken
	if err := json.Unmarshal(data, &st); err != nil {
		log.Debug("忽略无法解析的 token 文件: %v", err)
		return nil
	}
	if st.ClientID != s.clientID || st.Sandbox != s.sandbox {
		return nil
	}
	return st.Token
}

func (s *fileTokenSource) save(tok *oauth2.Token) error {
	if s.path == "" {
		return nil
	}
	data, err := json.Marshal(storedToken{ClientID: s.clientID, Sandbox: s.sandbox, Token: tok})
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0600)
}
