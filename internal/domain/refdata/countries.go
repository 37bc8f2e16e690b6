package refdata

// countries is the embedded reference dataset. Sourcing a fuller list is
// out of scope; this covers the jurisdictions served plus the markets the
// intake forms are commonly filled from.
var countries = []Country{
	{Code: "AE", Name: "United Arab Emirates", PhoneCode: "+971"},
	{Code: "AU", Name: "Australia", PhoneCode: "+61"},
	{Code: "BR", Name: "Brazil", PhoneCode: "+55"},
	{Code: "CA", Name: "Canada", PhoneCode: "+1"},
	{Code: "CH", Name: "Switzerland", PhoneCode: "+41"},
	{Code: "CN", Name: "China", PhoneCode: "+86"},
	{Code: "DE", Name: "Germany", PhoneCode: "+49"},
	{Code: "ES", Name: "Spain", PhoneCode: "+34"},
	{Code: "FR", Name: "France", PhoneCode: "+33"},
	{Code: "GB", Name: "United Kingdom", PhoneCode: "+44"},
	{Code: "HK", Name: "Hong Kong", PhoneCode: "+852"},
	{Code: "ID", Name: "Indonesia", PhoneCode: "+62"},
	{Code: "IN", Name: "India", PhoneCode: "+91"},
	{Code: "IT", Name: "Italy", PhoneCode: "+39"},
	{Code: "JP", Name: "Japan", PhoneCode: "+81"},
	{Code: "KR", Name: "South Korea", PhoneCode: "+82"},
	{Code: "KY", Name: "Cayman Islands", PhoneCode: "+1-345"},
	{Code: "MY", Name: "Malaysia", PhoneCode: "+60"},
	{Code: "NL", Name: "Netherlands", PhoneCode: "+31"},
	{Code: "NZ", Name: "New Zealand", PhoneCode: "+64"},
	{Code: "PA", Name: "Panama", PhoneCode: "+507"},
	{Code: "PH", Name: "Philippines", PhoneCode: "+63"},
	{Code: "RU", Name: "Russia", PhoneCode: "+7"},
	{Code: "SA", Name: "Saudi Arabia", PhoneCode: "+966"},
	{Code: "SE", Name: "Sweden", PhoneCode: "+46"},
	{Code: "SG", Name: "Singapore", PhoneCode: "+65"},
	{Code: "TH", Name: "Thailand", PhoneCode: "+66"},
	{Code: "TW", Name: "Taiwan", PhoneCode: "+886"},
	{Code: "US", Name: "United States", PhoneCode: "+1"},
	{Code: "VG", Name: "British Virgin Islands", PhoneCode: "+1-284"},
	{Code: "VN", Name: "Vietnam", PhoneCode: "+84"},
	{Code: "ZA", Name: "South Africa", PhoneCode: "+27"},
}
