package auth

import (
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceIdentity_Validate(t *testing.T) {
	valid := ServiceIdentity{
		Issuer:        "ledger@project.iam.gserviceaccount.com",
		SigningKey:    &rsa.PrivateKey{},
		Scope:         DefaultScope,
		TokenEndpoint: DefaultTokenEndpoint,
	}

	assert.NoError(t, valid.Validate())

	testCases := map[string]func(i *ServiceIdentity){
		"MissingIssuer":        func(i *ServiceIdentity) { i.Issuer = "" },
		"MissingSigningKey":    func(i *ServiceIdentity) { i.SigningKey = nil },
		"MissingScope":         func(i *ServiceIdentity) { i.Scope = "" },
		"MissingTokenEndpoint": func(i *ServiceIdentity) { i.TokenEndpoint = "" },
	}

	for name, modify := range testCases {
		modify := modify

		t.Run(name, func(t *testing.T) {
			identity := valid
			modify(&identity)

			assert.Error(t, identity.Validate())
		})
	}
}
