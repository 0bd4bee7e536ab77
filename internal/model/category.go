package model

import "encoding/json"

// Category はcategoriesコレクションのドキュメントを表す。
// 属性はストアが持つ任意のキーをそのまま保持する。
type Category struct {
	ID         string
	Attributes map[string]any
}

// MarshalJSON は {"id": ..., ...attributes} の平坦な形で出力する。
// 属性に "id" キーがある場合はそちらが優先される。
func (c Category) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(c.Attributes)+1)
	out["id"] = c.ID
	for k, v := range c.Attributes {
		out[k] = v
	}
	return json.Marshal(out)
}

// UnmarshalJSON はMarshalJSONの逆変換。キャッシュからの復元に使う。
func (c *Category) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if id, ok := raw["id"].(string); ok {
		c.ID = id
	}
	delete(raw, "id")
	c.Attributes = raw
	return nil
}
