package utils

import "testing"

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		title string
		want  string
	}{
		{"tieu de co dau", "Điều trị ARV cho người nhiễm HIV", "dieu-tri-arv-cho-nguoi-nhiem-hiv"},
		{"chu d gach", "Đăng ký khám định kỳ", "dang-ky-kham-dinh-ky"},
		{"ky tu dac biet", "Xét nghiệm & tư vấn (miễn phí)!", "xet-nghiem-tu-van-mien-phi"},
		{"chu hoa va so", "Top 5 Điều Cần Biết Về PrEP", "top-5-dieu-can-biet-ve-prep"},
		{"khoang trang thua", "  nhiều   khoảng   trắng  ", "nhieu-khoang-trang"},
		{"da ascii", "hello-world", "hello-world"},
		{"chuoi rong", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Slugify(tt.title); got != tt.want {
				t.Errorf("Slugify(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}
