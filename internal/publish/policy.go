package publish

import (
	"encoding/json"
	"fmt"
)

const policyVersion = "2012-10-17"

type bucketPolicy struct {
	Version   string            `json:"Version"`
	Statement []json.RawMessage `json:"Statement"`
}

type policyStatement struct {
	Sid       string              `json:"Sid,omitempty"`
	Effect    string              `json:"Effect"`
	Principal map[string][]string `json:"Principal"`
	Action    []string            `json:"Action"`
	Resource  []string            `json:"Resource"`
}

type statementResources struct {
	Effect   string          `json:"Effect"`
	Action   json.RawMessage `json:"Action"`
	Resource json.RawMessage `json:"Resource"`
}

// withPublicRead returns policy extended with an anonymous s3:GetObject grant
// on bucket/prefix*. Existing statements are preserved verbatim; changed is
// false when an equivalent grant is already present.
func withPublicRead(policy, bucket, prefix string) (string, bool, error) {
	resource := fmt.Sprintf("arn:aws:s3:::%s/%s*", bucket, prefix)

	doc := bucketPolicy{Version: policyVersion}
	if policy != "" {
		if err := json.Unmarshal([]byte(policy), &doc); err != nil {
			return "", false, fmt.Errorf("parse bucket policy: %w", err)
		}
	}

	for _, raw := range doc.Statement {
		var st statementResources
		if err := json.Unmarshal(raw, &st); err != nil {
			continue
		}
		if st.Effect == "Allow" && grants(st.Action, "s3:GetObject") && grants(st.Resource, resource) {
			return policy, false, nil
		}
	}

	grant, err := json.Marshal(policyStatement{
		Effect:    "Allow",
		Principal: map[string][]string{"AWS": {"*"}},
		Action:    []string{"s3:GetObject"},
		Resource:  []string{resource},
	})
	if err != nil {
		return "", false, err
	}
	doc.Statement = append(doc.Statement, grant)

	out, err := json.Marshal(doc)
	if err != nil {
		return "", false, err
	}
	return string(out), true, nil
}

// grants reports whether a policy field (a string or a list of strings) contains want.
func grants(field json.RawMessage, want string) bool {
	var one string
	if err := json.Unmarshal(field, &one); err == nil {
		return one == want
	}
	var many []string
	if err := json.Unmarshal(field, &many); err == nil {
		for _, v := range many {
			if v == want {
				return true
			}
		}
	}
	return false
}
