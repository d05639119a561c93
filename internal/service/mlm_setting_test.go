package service

import (
	"errors"
	"testing"

	"github.com/built-mlm/internal/constants"
	"github.com/built-mlm/internal/models"
)

func TestMLMSettingFromJSONParsesLooseValues(t *testing.T) {
	raw := models.JSON{
		constants.SettingFieldRootGroupID:   "12",
		constants.SettingFieldPermalinkBase: "/shops/",
		constants.SettingFieldVendorsPageID: float64(7),
	}
	setting := mlmSettingFromJSON(raw, MLMDefaultSetting())
	if setting.RootGroupID != 12 || setting.PermalinkBase != "shops" || setting.VendorsPageID != 7 {
		t.Fatalf("unexpected setting %+v", setting)
	}

	broken := mlmSettingFromJSON(models.JSON{constants.SettingFieldRootGroupID: "abc"}, MLMSetting{RootGroupID: 3})
	if broken.RootGroupID != 3 {
		t.Fatalf("unparsable root should keep fallback, got %d", broken.RootGroupID)
	}
}

func TestUpdateMLMSettingValidatesRootGroup(t *testing.T) {
	env := setupMLMServiceTest(t)

	if _, err := env.settings.UpdateMLMSetting(MLMSetting{RootGroupID: 77}); !errors.Is(err, ErrRootGroupNotFound) {
		t.Fatalf("expected ErrRootGroupNotFound, got %v", err)
	}
	root := createServiceTestGroup(t, env.db, "Registered", nil)
	saved, err := env.settings.UpdateMLMSetting(MLMSetting{RootGroupID: root.ID, PermalinkBase: "//vendors//"})
	if err != nil {
		t.Fatalf("update setting failed: %v", err)
	}
	if saved.PermalinkBase != "vendors" {
		t.Fatalf("expected trimmed permalink, got %q", saved.PermalinkBase)
	}
	loaded, err := env.settings.GetMLMSetting()
	if err != nil {
		t.Fatalf("get setting failed: %v", err)
	}
	if loaded != saved {
		t.Fatalf("expected %+v, got %+v", saved, loaded)
	}
}

func TestMLMSettingShopURL(t *testing.T) {
	cases := []struct {
		base, slug, want string
	}{
		{"vendors", "ann", "/vendors/ann/"},
		{"", "ann", "/ann/"},
		{"a/b", "/ann/", "/a/b/ann/"},
		{"vendors", "", ""},
	}
	for _, tc := range cases {
		if got := (MLMSetting{PermalinkBase: tc.base}).ShopURL(tc.slug); got != tc.want {
			t.Fatalf("ShopURL(%q, %q) = %q, want %q", tc.base, tc.slug, got, tc.want)
		}
	}
}
