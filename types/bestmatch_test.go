package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBestMatchExactAndPrefix(t *testing.T) {
	domain := []string{"oper", "enfo", "wave"}

	got, err := BestMatch("enfo", domain, nil, false, false)
	assert.NoError(t, err)
	assert.Equal(t, "enfo", got)

	got, err = BestMatch("op", domain, nil, false, false)
	assert.NoError(t, err)
	assert.Equal(t, "oper", got)
}

func TestBestMatchAmbiguous(t *testing.T) {
	domain := []string{"oper", "operod"}
	_, err := BestMatch("ope", domain, nil, false, false)
	assert.Error(t, err)
}

func TestBestMatchStrictRejectsNonExact(t *testing.T) {
	domain := []string{"oper", "enfo"}
	_, err := BestMatch("op", domain, nil, false, true)
	assert.Error(t, err)

	got, err := BestMatch("oper", domain, nil, false, true)
	assert.NoError(t, err)
	assert.Equal(t, "oper", got)
}

func TestBestMatchNoCandidatesReturnsEmpty(t *testing.T) {
	domain := []string{"oper", "enfo"}
	got, err := BestMatch("zzz", domain, nil, false, false)
	assert.NoError(t, err)
	assert.Equal(t, "", got)
}

func TestBestMatchFullMatchRequiresWholeCandidateAsPrefix(t *testing.T) {
	domain := []string{"operational"}
	got, err := BestMatch("oper", domain, nil, true, false)
	assert.NoError(t, err)
	assert.Equal(t, "operational", got)
}
