package seed

var (
	LastNames  = []string{"김", "이", "박", "최", "정", "강", "조", "윤", "장", "임", "한", "오", "서", "신", "권", "황", "안", "송", "류", "전"}
	FirstNames = []string{"민준", "서준", "도윤", "예준", "시우", "하준", "지호", "주원", "지우", "준우", "서연", "서윤", "서현", "하은", "민서", "지유", "윤서", "채원"}

	// 거주지: 약칭과 정식 명칭을 섞어 지역 정규화를 거치게 한다
	Residences = []string{
		"서울", "서울특별시", "부산", "부산광역시", "대구", "인천광역시", "광주", "대전광역시",
		"울산", "세종특별자치시", "경기", "경기도", "강원특별자치도", "충북", "충청남도",
		"전북특별자치도", "전남", "경상북도", "경남", "제주특별자치도", "해외",
	}

	AgencyPrefixes = []string{"서울", "부산", "대구", "인천", "광주", "대전", "수원", "성남", "청주", "전주", "천안", "김해", "춘천", "원주"}
	AgencyKinds    = []string{"초등학교", "중학교", "고등학교", "청소년수련관", "복지관", "보건소", "시청", "교육청", "주식회사", "노인복지센터"}

	Programs     = []string{"숲길 걷기", "명상과 호흡", "숲 체조", "목공 체험", "아로마 테라피", "차 명상", "산림 치유 해설", "싱잉볼 명상", "맨발 걷기", "숲속 요가"}
	Places       = []string{"치유의 숲", "숲길 1코스", "숲길 2코스", "명상센터", "실내 체육관", "목공방", "치유정원", "데크로드"}
	Bunya        = []string{"산림치유", "숲해설", "명상", "체험", "교육", "문화"}
	Jobs         = []string{"학생", "회사원", "공무원", "자영업", "전문직", "주부", "무직", "기타"}
	OrgNatures   = []string{"교육기관", "복지기관", "기업", "공공기관", "가족", "개인", "기타"}
	PartTypes    = []string{"개인", "단체", "가족"}
	Types        = []string{"일반", "청소년", "노인", "장애인", "다문화", "임직원"}
	ProgramTypes = []string{"당일형", "1박2일", "2박3일", "장기형"}
)
